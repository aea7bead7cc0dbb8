/*
 * Copyright (c) 2018 XLAB d.o.o
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package data

import (
	"bufio"
	"fmt"
	"io"
	"math/big"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// The textual format: integers separated by whitespace or commas, one matrix
// row per line, blank lines ignored. A vector may span several lines.

func splitFields(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\r'
	})
}

// ReadVector parses all integers in the file into a single Vector.
func ReadVector(path string) (Vector, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open vector file")
	}
	defer f.Close()

	var vec Vector
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1<<16), 1<<24)
	for scanner.Scan() {
		for _, field := range splitFields(scanner.Text()) {
			v, err := strconv.ParseInt(field, 10, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "cannot parse %q", field)
			}
			vec = append(vec, v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "cannot read vector file")
	}
	return vec, nil
}

// ReadMatrix parses the file into a Matrix, one row per non-blank line.
func ReadMatrix(path string) (Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open matrix file")
	}
	defer f.Close()

	var mat Matrix
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1<<16), 1<<24)
	for scanner.Scan() {
		fields := splitFields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		row := make(Vector, len(fields))
		for j, field := range fields {
			v, err := strconv.ParseInt(field, 10, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "cannot parse %q", field)
			}
			row[j] = v
		}
		mat = append(mat, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "cannot read matrix file")
	}
	return mat, nil
}

// WriteVector writes v as a single space-separated line.
func (v Vector) WriteVector(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "cannot create vector file")
	}
	defer f.Close()
	return writeRow(f, v)
}

// WriteMatrix writes m with one space-separated row per line.
func (m Matrix) WriteMatrix(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "cannot create matrix file")
	}
	defer f.Close()
	for _, row := range m {
		if err := writeRow(f, row); err != nil {
			return err
		}
	}
	return nil
}

// WriteBigVector writes arbitrary-precision values as a single line.
func WriteBigVector(path string, vec []*big.Int) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "cannot create vector file")
	}
	defer f.Close()
	parts := make([]string, len(vec))
	for i, v := range vec {
		parts[i] = v.String()
	}
	_, err = fmt.Fprintln(f, strings.Join(parts, " "))
	return errors.Wrap(err, "cannot write vector file")
}

func writeRow(w io.Writer, row Vector) error {
	parts := make([]string, len(row))
	for i, v := range row {
		parts[i] = strconv.FormatInt(v, 10)
	}
	_, err := fmt.Fprintln(w, strings.Join(parts, " "))
	return errors.Wrap(err, "cannot write row")
}
