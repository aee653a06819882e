// Copyright 2021 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dataset

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gorse-io/gorse-sampler/base"
	"github.com/juju/errors"
	"github.com/samber/lo"
)

// CSVOptions controls how interactions are read from delimited text.
type CSVOptions struct {
	// Sep separates fields, "," if empty.
	Sep string
	// Columns restricts the loaded columns. All header columns are loaded if empty.
	Columns []string
	// MapIDs maps arbitrary string identifiers to dense indices instead of
	// parsing them as integers.
	MapIDs bool
}

// LoadCSVFile reads a table from a file. See LoadCSV.
func LoadCSVFile(path string, opts CSVOptions) (*Table, map[string]*FreqDict, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	defer file.Close()
	return LoadCSV(file, opts)
}

// LoadCSV reads a table whose first line names the columns. If MapIDs is set, the
// returned dictionaries map every column's indices back to raw identifiers.
func LoadCSV(r io.Reader, opts CSVOptions) (*Table, map[string]*FreqDict, error) {
	sep := lo.Ternary(opts.Sep == "", ",", opts.Sep)
	var (
		header  []string
		indices []int
		columns = make(map[string][]int64)
		dicts   = make(map[string]*FreqDict)
		loadErr error
	)
	err := readLines(bufio.NewScanner(r), sep, func(lineNumber int, fields []string) bool {
		if lineNumber == 0 {
			header = lo.Map(fields, func(s string, _ int) string { return strings.TrimSpace(s) })
			wanted := lo.Ternary(len(opts.Columns) == 0, header, opts.Columns)
			for _, name := range wanted {
				i := lo.IndexOf(header, name)
				if i < 0 {
					loadErr = base.ConfigurationErrorf("column %s not found in header %v", name, header)
					return false
				}
				indices = append(indices, i)
				columns[name] = nil
				if opts.MapIDs {
					dicts[name] = NewFreqDict()
				}
			}
			return true
		}
		if len(fields) != len(header) {
			loadErr = errors.Errorf("line %d has %d fields, expected %d", lineNumber+1, len(fields), len(header))
			return false
		}
		for _, i := range indices {
			name, text := header[i], strings.TrimSpace(fields[i])
			if opts.MapIDs {
				columns[name] = append(columns[name], dicts[name].Id(text))
				continue
			}
			value, err := strconv.ParseInt(text, 10, 64)
			if err != nil {
				loadErr = errors.Annotatef(err, "line %d column %s", lineNumber+1, name)
				return false
			}
			columns[name] = append(columns[name], value)
		}
		return true
	})
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	if loadErr != nil {
		return nil, nil, loadErr
	}
	if header == nil {
		return nil, nil, base.ConfigurationErrorf("missing header line")
	}
	table, err := NewTable(columns)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	return table, dicts, nil
}

// readLines parses fields of each line. Quoted fields may contain separators,
// doubled quotes and line breaks.
func readLines(sc *bufio.Scanner, sep string, handler func(int, []string) bool) error {
	lineCount := 0               // line number of current position
	fields := make([]string, 0)  // fields for current line
	builder := strings.Builder{} // string builder for current field
	quoted := false              // whether current position in quote
	for sc.Scan() {
		line := []rune(sc.Text())
		if quoted {
			builder.WriteString("\r\n")
		} else if len(line) == 0 {
			// skip blank lines
			continue
		}
		for i := 0; i < len(line); i++ {
			if string(line[i]) == sep && !quoted {
				fields = append(fields, builder.String())
				builder.Reset()
			} else if line[i] == '"' {
				if quoted {
					if i+1 >= len(line) || line[i+1] != '"' {
						quoted = false
					} else {
						i++
						builder.WriteRune('"')
					}
				} else {
					quoted = true
				}
			} else {
				builder.WriteRune(line[i])
			}
		}
		if !quoted {
			fields = append(fields, builder.String())
			builder.Reset()
			if !handler(lineCount, fields) {
				return nil
			}
			fields = []string{}
			lineCount++
		}
	}
	return sc.Err()
}
