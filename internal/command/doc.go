// Package command defines the closed set of Markdown editing commands.
//
// Each command is bound to exactly one buffer primitive:
//
//   - wrap: format.bold, format.italic, format.underline,
//     format.strikethrough, format.code, format.comment, format.color,
//     insert.link, insert.image, insert.codeblock, insert.hr
//   - line-prefix: line.quote, line.ul, line.ol, line.task, line.heading
//   - structured: insert.table
//
// Commands run against a Target, normally an *engine.Session:
//
//	reg := command.NewRegistry()
//	res := reg.Execute(session, command.CmdBold, "")
//	if res.IsError() {
//	    status.Show(res.Message)
//	}
//
// format.strikethrough, format.comment and insert.link need a non-empty
// selection and return StatusNoOp without one. Arguments (colour, heading
// level, table size) are validated before the buffer is touched; a bad
// argument yields StatusError with a *ValidationError.
package command
