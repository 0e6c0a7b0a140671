// Package lua runs user Lua scripts as preview decorators.
//
// A plugin script defines a global function
//
//	function decorate(html)
//	  return html .. "<footer>" .. markpad.escape(markpad.title) .. "</footer>"
//	end
//
// which receives the rendered preview HTML and returns the replacement.
// Scripts run in a sandbox: only the base, string, table and math libraries
// are open, and loading code from disk is disabled. Every call is bounded by
// a timeout. A script that fails, times out or returns a non-string leaves
// the HTML unchanged.
package lua
