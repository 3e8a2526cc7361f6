package Transformer

import (
	"os"
	"path/filepath"
	"strings"
)

// FindFiles 在目录下按扩展名收集文件路径，ext不带点号
func FindFiles(root string, ext string) []string {
	var files []string
	filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if strings.HasSuffix(strings.ToLower(info.Name()), "."+strings.ToLower(ext)) {
			files = append(files, path)
		}
		return nil
	})
	return files
}
