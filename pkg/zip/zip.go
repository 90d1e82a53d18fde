// Package zip bundles generated flyer files into a single downloadable
// archive.
package zip

import (
	"archive/zip"
	"bytes"
	"path"
	"strings"
)

type File struct {
	Name string
	Data []byte
}

// Archive packs the given files into a zip archive. Empty or unnamed entries
// are skipped; names are flattened to their base component.
func Archive(files []File) []byte {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, file := range files {
		name := strings.TrimSpace(path.Base(file.Name))
		if name == "" || name == "." || len(file.Data) == 0 {
			continue
		}
		w, err := zw.Create(name)
		if err != nil {
			continue
		}
		if _, err := w.Write(file.Data); err != nil {
			return nil
		}
	}
	_ = zw.Close()
	return buf.Bytes()
}
