package source

import (
	"encoding/json"
	"fmt"
	"os"
)

// FileSource 从本地 JSON 文件读取节点数组。
type FileSource struct {
	path string
}

func NewFileSource(path string) Source {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string { return s.path }

func (s *FileSource) Fetch() ([]map[string]any, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read nodes file: %w", err)
	}
	var rawNodes []map[string]any
	if err := json.Unmarshal(data, &rawNodes); err != nil {
		return nil, fmt.Errorf("input must be a JSON list of node objects: %w", err)
	}
	return rawNodes, nil
}
