// Copyright 2026 The rinaproto Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v2"

	"github.com/rinaproto/rina/normal/dft"
	"github.com/rinaproto/rina/normal/mgmtapi"
	"github.com/rinaproto/rina/pkg/private/common"
	"github.com/rinaproto/rina/pkg/private/serrors"
)

// printer renders command results in the selected format.
type printer struct {
	format  string
	w       io.Writer
	colored bool
}

func newPrinter(format string, w io.Writer, noColor bool) (printer, error) {
	switch format {
	case "human", "json", "yaml":
		return printer{format: format, w: w, colored: !noColor && isTerminal(w)}, nil
	default:
		return printer{}, serrors.New("format not supported", "format", format)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// scheme holds the colors of the human output.
type scheme struct {
	keys   *color.Color
	good   *color.Color
	bad    *color.Color
	header *color.Color
}

func (p printer) scheme() scheme {
	noColor := color.New()
	noColor.DisableColor()
	if !p.colored {
		return scheme{keys: noColor, good: noColor, bad: noColor, header: noColor}
	}
	return scheme{
		keys:   color.New(color.FgHiCyan),
		good:   color.New(color.FgGreen),
		bad:    color.New(color.FgRed),
		header: color.New(color.FgHiBlack),
	}
}

// print writes v as json or yaml, or calls human for the human format.
func (p printer) print(v any, human func(w io.Writer)) error {
	switch p.format {
	case "json":
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		raw, err := yaml.Marshal(v)
		if err != nil {
			return serrors.Wrap("encoding yaml", err)
		}
		_, err = p.w.Write(raw)
		return err
	default:
		human(p.w)
		return nil
	}
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader(header)
	return table
}

func renderEntries(w io.Writer, entries []mgmtapi.Entry) {
	table := newTable(w, "NAME", "ADDRESS", "TIMESTAMP", "LOCAL")
	for _, e := range entries {
		ts := dft.Timestamp(e.Timestamp)
		table.Append([]string{
			e.Name.String(),
			e.Address.String(),
			ts.Time().Format(common.TimeFmt),
			strconv.FormatBool(e.Local),
		})
	}
	table.Render()
}

func renderNeighbors(w io.Writer, cs scheme, neighbors []mgmtapi.Neighbor) {
	table := newTable(w, "NAME", "STATE", "SINCE", "PENDING", "DROPPED")
	for _, n := range neighbors {
		state := cs.bad
		if n.State == "enrolled" {
			state = cs.good
		}
		table.Append([]string{
			n.Name.String(),
			state.Sprint(n.State),
			n.Since.Format(common.TimeFmtSecs),
			strconv.Itoa(n.PendingKeepalives),
			strconv.Itoa(n.Dropped),
		})
	}
	table.Render()
}

func renderInfo(w io.Writer, cs scheme, info mgmtapi.Info) {
	fmt.Fprintf(w, "%s    %s\n", cs.keys.Sprint("Name:"), info.Name)
	fmt.Fprintf(w, "%s     %s\n", cs.keys.Sprint("DIF:"), info.DIF)
	fmt.Fprintf(w, "%s %s\n", cs.keys.Sprint("Address:"), info.Address)
	fmt.Fprintf(w, "%s %d\n", cs.keys.Sprint("Entries:"), info.Entries)
}
