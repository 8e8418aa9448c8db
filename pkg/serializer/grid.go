// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package serializer

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// gridLines lays out g as rows of header and body cells. One line is
// emitted per column level, holding the column key name in the last index
// position, followed by a line naming the row keys when there are any.
func gridLines(g Grid) (header [][]string, body [][]string) {
	rowKeys := g.RowHeader()
	colKeys := g.ColumnHeader()
	rows := g.RowLabels()
	cols := g.ColumnLabels()

	index := len(rowKeys)
	if index == 0 {
		index = 1
	}

	for level, name := range colKeys {
		line := make([]string, index, index+len(cols))
		line[index-1] = name
		for _, c := range cols {
			line = append(line, c[level])
		}
		header = append(header, line)
	}
	if len(colKeys) == 0 && len(cols) > 0 {
		line := make([]string, index, index+len(cols))
		for range cols {
			line = append(line, "")
		}
		header = append(header, line)
	}
	if len(rowKeys) > 0 {
		line := make([]string, 0, index+len(cols))
		line = append(line, rowKeys...)
		for range cols {
			line = append(line, "")
		}
		header = append(header, line)
	}

	for i, r := range rows {
		line := make([]string, 0, index+len(cols))
		line = append(line, r...)
		if len(rowKeys) == 0 {
			line = append(line, "")
		}
		for j := range cols {
			line = append(line, g.CellText(i, j))
		}
		body = append(body, line)
	}
	return header, body
}

// writeGridText writes g as aligned plain text.
func writeGridText(w io.Writer, g Grid) error {
	header, body := gridLines(g)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, line := range append(header, body...) {
		fmt.Fprintln(tw, strings.Join(line, "\t"))
	}
	return tw.Flush()
}

// writeGridHTML writes g as an HTML table. Cell text is emitted verbatim.
func writeGridHTML(w io.Writer, g Grid) error {
	header, body := gridLines(g)
	var b strings.Builder
	b.WriteString("<table border=\"1\" class=\"dataframe\">\n")
	b.WriteString("  <thead>\n")
	for _, line := range header {
		b.WriteString("    <tr>\n")
		for _, cell := range line {
			fmt.Fprintf(&b, "      <th>%s</th>\n", cell)
		}
		b.WriteString("    </tr>\n")
	}
	b.WriteString("  </thead>\n")
	b.WriteString("  <tbody>\n")
	index := max(len(g.RowHeader()), 1)
	for _, line := range body {
		b.WriteString("    <tr>\n")
		for k, cell := range line {
			tag := "td"
			if k < index {
				tag = "th"
			}
			fmt.Fprintf(&b, "      <%s>%s</%s>\n", tag, cell, tag)
		}
		b.WriteString("    </tr>\n")
	}
	b.WriteString("  </tbody>\n")
	b.WriteString("</table>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// writeGridLaTeX writes g as a booktabs tabular. Cell text is emitted
// verbatim so that math such as $\pm$ survives.
func writeGridLaTeX(w io.Writer, g Grid) error {
	header, body := gridLines(g)
	index := max(len(g.RowHeader()), 1)
	width := index + len(g.ColumnLabels())

	var b strings.Builder
	b.WriteString("\\begin{tabular}{")
	b.WriteString(strings.Repeat("l", index))
	b.WriteString(strings.Repeat("r", width-index))
	b.WriteString("}\n\\toprule\n")
	for _, line := range header {
		b.WriteString(strings.Join(line, " & "))
		b.WriteString(" \\\\\n")
	}
	b.WriteString("\\midrule\n")
	for _, line := range body {
		b.WriteString(strings.Join(line, " & "))
		b.WriteString(" \\\\\n")
	}
	b.WriteString("\\bottomrule\n\\end{tabular}\n")
	_, err := io.WriteString(w, b.String())
	return err
}
