package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/markpad/internal/command/structured"
)

// DefaultColor is used by format.color when no colour is given.
const DefaultColor = "#ff0000"

// cssColors are the CSS colour keywords accepted besides hex values.
var cssColors = map[string]string{
	"black":   "#000000",
	"white":   "#ffffff",
	"red":     "#ff0000",
	"green":   "#008000",
	"blue":    "#0000ff",
	"yellow":  "#ffff00",
	"orange":  "#ffa500",
	"purple":  "#800080",
	"gray":    "#808080",
	"grey":    "#808080",
	"teal":    "#008080",
	"navy":    "#000080",
	"maroon":  "#800000",
	"olive":   "#808000",
	"silver":  "#c0c0c0",
	"fuchsia": "#ff00ff",
	"aqua":    "#00ffff",
	"lime":    "#00ff00",
}

// NormalizeColor validates a colour argument and returns it as #rrggbb.
// It accepts #rgb, #rrggbb and the basic CSS keywords.
func NormalizeColor(arg string) (string, error) {
	arg = strings.ToLower(strings.TrimSpace(arg))
	if arg == "" {
		return DefaultColor, nil
	}
	if hex, ok := cssColors[arg]; ok {
		return hex, nil
	}
	if !strings.HasPrefix(arg, "#") {
		arg = "#" + arg
	}
	if n := len(arg); (n != 4 && n != 7) || strings.Trim(arg[1:], "0123456789abcdef") != "" {
		return "", fmt.Errorf("not a colour: %q", arg)
	}
	c, err := colorful.Hex(arg)
	if err != nil {
		return "", fmt.Errorf("not a colour: %w", err)
	}
	return c.Hex(), nil
}

func colorOp(arg string) (Op, error) {
	hex, err := NormalizeColor(arg)
	if err != nil {
		return Op{}, &ValidationError{Command: CmdColor, Arg: arg, Reason: err.Error()}
	}
	return Op{
		Before:      `<span style="color: ` + hex + `">`,
		After:       "</span>",
		Placeholder: "colored text",
	}, nil
}

func headingOp(arg string) (Op, error) {
	level := 2
	if s := strings.TrimSpace(arg); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 6 {
			return Op{}, &ValidationError{Command: CmdHeading, Arg: arg, Reason: "level must be 1 to 6"}
		}
		level = n
	}
	return Op{Prefix: strings.Repeat("#", level) + " "}, nil
}

func linkOp(arg string) (Op, error) {
	url := strings.TrimSpace(arg)
	if url == "" {
		url = "url"
	}
	if strings.ContainsAny(url, " \n()") {
		return Op{}, &ValidationError{Command: CmdLink, Arg: arg, Reason: "URL must not contain spaces or parentheses"}
	}
	return Op{Before: "[", After: "](" + url + ")"}, nil
}

func imageOp(arg string) (Op, error) {
	src := strings.TrimSpace(arg)
	if src == "" {
		src = "image-url"
	}
	if strings.ContainsAny(src, " \n()") {
		return Op{}, &ValidationError{Command: CmdImage, Arg: arg, Reason: "source must not contain spaces or parentheses"}
	}
	return Op{Before: "![", After: "](" + src + ")", Placeholder: "alt text"}, nil
}

func codeBlockOp(arg string) (Op, error) {
	lang := strings.TrimSpace(arg)
	if strings.ContainsAny(lang, " \t\n`") {
		return Op{}, &ValidationError{Command: CmdCodeBlock, Arg: arg, Reason: "language must be a single word"}
	}
	return Op{Before: "\n```" + lang + "\n", After: "\n```\n", Placeholder: "code block"}, nil
}

func tableOp(arg string) (Op, error) {
	rows, cols, err := structured.ParseTableSize(arg)
	if err == nil {
		t := structured.Table{Rows: rows, Cols: cols}
		if err = t.Validate(); err == nil {
			return Op{Replacement: t.Build()}, nil
		}
	}
	return Op{}, &ValidationError{Command: CmdTable, Arg: arg, Reason: err.Error()}
}
