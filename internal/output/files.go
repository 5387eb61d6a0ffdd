package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
)

// JSONOutput appends one JSON document per line to
// <base>/<folder>/<topic>/<partition>/data.json.
type JSONOutput struct {
	basePath string
	folder   string
	mu       sync.Mutex
	files    map[string]*os.File
}

func NewJSONOutput(basePath, folder string) *JSONOutput {
	return &JSONOutput{
		basePath: basePath,
		folder:   folder,
		files:    make(map[string]*os.File),
	}
}

func (j *JSONOutput) WriteMessage(topic string, msg []byte) error {
	event, partition, err := decodeEvent(msg)
	if err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	fileKey := topic + "_" + partition
	file, ok := j.files[fileKey]
	if !ok {
		fullPath := filepath.Join(j.basePath, j.folder, topic, partition)
		if err := os.MkdirAll(fullPath, os.ModePerm); err != nil {
			return err
		}
		file, err = os.Create(filepath.Join(fullPath, "data.json"))
		if err != nil {
			return err
		}
		j.files[fileKey] = file
	}

	jsonData, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if _, err := file.Write(append(jsonData, '\n')); err != nil {
		return fmt.Errorf("failed to append to %s: %w", file.Name(), err)
	}
	return nil
}

func (j *JSONOutput) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	var lastErr error
	for key, file := range j.files {
		if err := file.Close(); err != nil {
			lastErr = err
		}
		delete(j.files, key)
	}
	return lastErr
}

// CSVOutput writes one CSV file per partition. The header is taken from the
// first event written to the file.
type CSVOutput struct {
	basePath string
	folder   string
	mu       sync.Mutex
	files    map[string]*os.File
	writers  map[string]*csv.Writer
	headers  map[string][]string
}

func NewCSVOutput(basePath, folder string) *CSVOutput {
	return &CSVOutput{
		basePath: basePath,
		folder:   folder,
		files:    make(map[string]*os.File),
		writers:  make(map[string]*csv.Writer),
		headers:  make(map[string][]string),
	}
}

func (c *CSVOutput) WriteMessage(topic string, msg []byte) error {
	event, partition, err := decodeEvent(msg)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	fileKey := topic + "_" + partition
	csvWriter, ok := c.writers[fileKey]
	if !ok {
		fullPath := filepath.Join(c.basePath, c.folder, topic, partition)
		if err := os.MkdirAll(fullPath, os.ModePerm); err != nil {
			return err
		}
		file, err := os.Create(filepath.Join(fullPath, "data.csv"))
		if err != nil {
			return err
		}
		csvWriter = csv.NewWriter(file)
		c.files[fileKey] = file
		c.writers[fileKey] = csvWriter

		headers := headersOf(event)
		if err := csvWriter.Write(headers); err != nil {
			return err
		}
		c.headers[fileKey] = headers
	}

	row := make([]string, len(c.headers[fileKey]))
	for i, header := range c.headers[fileKey] {
		if value, ok := event[header]; ok {
			row[i] = cellValue(value)
		}
	}
	if err := csvWriter.Write(row); err != nil {
		return err
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

func headersOf(event map[string]interface{}) []string {
	headers := make([]string, 0, len(event))
	for key := range event {
		headers = append(headers, key)
	}
	sort.Strings(headers)
	return headers
}

// cellValue flattens nested values back to JSON so locations stay readable.
func cellValue(value interface{}) string {
	switch v := value.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case map[string]interface{}, []interface{}:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (c *CSVOutput) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var lastErr error
	for key, csvWriter := range c.writers {
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil {
			lastErr = err
		}
		if err := c.files[key].Close(); err != nil {
			lastErr = err
		}
		delete(c.writers, key)
		delete(c.files, key)
	}
	return lastErr
}
