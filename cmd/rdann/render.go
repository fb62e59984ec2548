package main

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/arloliu/annot/codes"
	"github.com/arloliu/annot/format"
)

var headers = []string{"Time", "Type", "Sub", "Chan", "Num", "Aux"}

// rightAligned marks the numeric columns.
var rightAligned = []bool{true, false, true, true, true, false}

func row(tbl *codes.Table, a format.Annotation) []string {
	return []string{
		strconv.FormatInt(a.Time, 10),
		tbl.Mnemonic(int(a.Type)),
		strconv.Itoa(int(a.Subtype)),
		strconv.Itoa(int(a.Chan)),
		strconv.Itoa(int(a.Num)),
		printableAux(a.Aux),
	}
}

// printableAux renders aux text with control bytes escaped.
func printableAux(aux []byte) string {
	if len(aux) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, c := range aux {
		if c < 0x20 || c >= 0x7f {
			sb.WriteString(`\x`)
			sb.WriteString(strconv.FormatUint(uint64(c)|0x100, 16)[1:])

			continue
		}
		sb.WriteByte(c)
	}

	return sb.String()
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()

	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func renderTable(rows [][]string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, r := range rows {
		tr := make(table.Row, len(r))
		for i, v := range r {
			tr[i] = v
		}
		tw.AppendRow(tr)
	}

	configs := make([]table.ColumnConfig, 0, len(headers))
	for i := range headers {
		align := text.AlignLeft
		if rightAligned[i] {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: text.AlignLeft})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

func renderTSV(rows [][]string) string {
	var sb strings.Builder
	for _, r := range rows {
		sb.WriteString(strings.Join(r, "\t"))
		sb.WriteByte('\n')
	}

	return sb.String()
}
