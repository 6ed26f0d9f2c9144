/*
Copyright (C) 2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package zeno

import "io"
import "os"
import "fmt"
import "strings"
import units "github.com/docker/go-units"
import "github.com/pierrec/lz4/v4"
import "github.com/ulikunitz/xz"

// LoadSource reads a source file. Files ending in .xz or .lz4 are
// decompressed; the text (after decompression) may not exceed limit bytes.
func LoadSource(filename string, limit int64) (string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return ReadSource(filename, f, limit)
}

// ReadSource is LoadSource on an already opened stream; filename only
// selects the decompression.
func ReadSource(filename string, r io.Reader, limit int64) (string, error) {
	switch {
	case strings.HasSuffix(filename, ".xz"):
		xr, err := xz.NewReader(r)
		if err != nil {
			return "", fmt.Errorf("%s: %w", filename, err)
		}
		r = xr
	case strings.HasSuffix(filename, ".lz4"):
		r = lz4.NewReader(r)
	}
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", fmt.Errorf("%s: %w", filename, err)
	}
	if int64(len(b)) > limit {
		return "", fmt.Errorf("%s: source is larger than %s", filename, units.BytesSize(float64(limit)))
	}
	return string(b), nil
}
