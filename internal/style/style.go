package style

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
)

var Symbol = func(value string) string {
	if color.NoColor {
		return "'" + value + "'"
	}
	return Key(value)
}

var SymbolF = func(format string, a ...interface{}) string {
	if color.NoColor {
		return "'" + fmt.Sprintf(format, a...) + "'"
	}
	return Key(format, a...)
}

// List renders each value as a symbol, joined by ", ".
func List(values []string) string {
	var symbols []string
	for _, v := range values {
		symbols = append(symbols, Symbol(v))
	}
	return strings.Join(symbols, ", ")
}

var Map = func(value map[string]string, prefix, separator string) string {
	var keys []string
	for k := range value {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var pairs []string
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s%s=%s", prefix, k, value[k]))
	}
	return Symbol(strings.TrimPrefix(strings.Join(pairs, separator), prefix))
}

var Key = color.HiBlueString

var Tip = color.New(color.FgGreen, color.Bold).SprintfFunc()

var Warn = color.New(color.FgYellow, color.Bold).SprintfFunc()

var Error = color.New(color.FgRed, color.Bold).SprintfFunc()

var Step = func(format string, a ...interface{}) string {
	return color.CyanString("===> "+format, a...)
}

var Prefix = color.CyanString

var TimestampColorCode = color.FgHiBlack
