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

package data_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fentec-project/rlwe-ipfe/data"
)

func TestVector_ReadWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vec.txt")

	vec := data.Vector{5, -6, 7, 0, -8}
	assert.NoError(t, vec.WriteVector(path))
	got, err := data.ReadVector(path)
	assert.NoError(t, err)
	assert.Equal(t, vec, got)
}

func TestVector_ReadFormats(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vec.txt")

	// commas, stray whitespace, blank lines and line breaks are all accepted
	assert.NoError(t, os.WriteFile(path, []byte("1, 2,3\n\n  4\t5\n-6\n"), 0600))
	got, err := data.ReadVector(path)
	assert.NoError(t, err)
	assert.Equal(t, data.Vector{1, 2, 3, 4, 5, -6}, got)

	assert.NoError(t, os.WriteFile(path, []byte("1 x 3"), 0600))
	_, err = data.ReadVector(path)
	assert.Error(t, err)
}

func TestMatrix_ReadWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mat.txt")

	mat := data.Matrix{{1, 2, 3}, {-4, 5, -6}}
	assert.NoError(t, mat.WriteMatrix(path))
	got, err := data.ReadMatrix(path)
	assert.NoError(t, err)
	assert.Equal(t, mat, got)
}

func TestMatrix_ReadSkipsBlankLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mat.txt")

	assert.NoError(t, os.WriteFile(path, []byte("\n1,2\n\n3 4\n\n"), 0600))
	got, err := data.ReadMatrix(path)
	assert.NoError(t, err)
	assert.Equal(t, data.Matrix{{1, 2}, {3, 4}}, got)
}

func TestCheckBound(t *testing.T) {
	v := data.Vector{3, -3, 0}
	assert.NoError(t, v.CheckBound(3))
	assert.Error(t, v.CheckBound(2))

	m := data.Matrix{{1, 2}, {3, -4}}
	assert.NoError(t, m.CheckBound(4))
	assert.Error(t, m.CheckBound(3))
}

func TestMatrix_Dims(t *testing.T) {
	m := data.Matrix{{1, 2}, {3, 4}, {5, 6}}
	assert.Equal(t, 3, m.Rows())
	assert.Equal(t, 2, m.Cols())
	assert.True(t, m.CheckDims(3, 2))
	assert.False(t, m.CheckDims(2, 3))
	assert.False(t, data.Matrix{{1}, {2, 3}}.CheckDims(2, 1))
}

func TestMatrix_MulVec(t *testing.T) {
	m := data.Matrix{{1, 2}, {3, 4}}
	res, err := m.MulVec(data.Vector{5, 6})
	assert.NoError(t, err)
	assert.Equal(t, int64(17), res[0].Int64())
	assert.Equal(t, int64(39), res[1].Int64())

	_, err = m.MulVec(data.Vector{1})
	assert.Error(t, err)
}
