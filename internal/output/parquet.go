package output

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/chrisdamba/traveltime/internal/cloudwriter"
	"github.com/chrisdamba/traveltime/internal/models"
	"github.com/lucsky/cuid"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
	"go.uber.org/zap"
)

const parquetParallelism = 4

// ParquetOutput writes prediction records to one Parquet file per topic and
// hourly partition, either on disk or in a bucket. Files from one run carry
// the same run id so a restart never truncates earlier output.
type ParquetOutput struct {
	basePath           string
	folder             string
	runID              string
	mu                 sync.Mutex
	writers            map[string]*writer.ParquetWriter
	files              map[string]source.ParquetFile
	cloudWriterFactory cloudwriter.CloudWriterFactory
	cloudBucketName    string
}

func NewParquetOutput(ctx context.Context, config *models.Config) (*ParquetOutput, error) {
	p := newParquetOutput(config.OutputPath, config.OutputFolder)

	if config.OutputDestination != "" && config.OutputDestination != "local" {
		switch config.CloudStorage.Provider {
		case "s3":
			factory, err := cloudwriter.NewS3WriterFactory(ctx, config.CloudStorage.Region)
			if err != nil {
				return nil, fmt.Errorf("failed to create cloud writer factory: %w", err)
			}
			p.cloudWriterFactory = factory
		default:
			return nil, fmt.Errorf("unsupported cloud storage provider: %s", config.CloudStorage.Provider)
		}
		p.cloudBucketName = config.CloudStorage.BucketName
	}

	return p, nil
}

func newParquetOutput(basePath, folder string) *ParquetOutput {
	return &ParquetOutput{
		basePath: basePath,
		folder:   folder,
		runID:    cuid.New(),
		writers:  make(map[string]*writer.ParquetWriter),
		files:    make(map[string]source.ParquetFile),
	}
}

func (p *ParquetOutput) WriteMessage(topic string, msg []byte) error {
	var record models.PredictionRecord
	if err := json.Unmarshal(msg, &record); err != nil {
		return err
	}
	if record.Timestamp == 0 {
		return ErrMissingTimestamp
	}
	partition := partitionPath(record.Timestamp)

	p.mu.Lock()
	defer p.mu.Unlock()

	writerKey := topic + "_" + partition
	pw, ok := p.writers[writerKey]
	if !ok {
		var err error
		pw, err = p.createNewWriter(writerKey, topic, partition)
		if err != nil {
			return fmt.Errorf("failed to create new writer: %w", err)
		}
	}

	if err := pw.Write(record); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	return nil
}

func (p *ParquetOutput) createNewWriter(writerKey, topic, partition string) (*writer.ParquetWriter, error) {
	fileName := fmt.Sprintf("part-%s.parquet", p.runID)

	var fw source.ParquetFile
	if p.cloudWriterFactory != nil {
		objectPath := path.Join(p.folder, topic, partition, fileName)
		cloudWriter, err := p.cloudWriterFactory.NewWriter(p.cloudBucketName, objectPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud file writer: %w", err)
		}
		fw = NewCloudParquetFile(cloudWriter)
	} else {
		fullPath := filepath.Join(p.basePath, p.folder, topic, partition)
		if err := os.MkdirAll(fullPath, os.ModePerm); err != nil {
			return nil, err
		}
		var err error
		fw, err = local.NewLocalFileWriter(filepath.Join(fullPath, fileName))
		if err != nil {
			return nil, fmt.Errorf("failed to create local file writer: %w", err)
		}
	}

	pw, err := writer.NewParquetWriter(fw, new(models.PredictionRecord), parquetParallelism)
	if err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to create ParquetWriter: %w", err)
	}

	p.writers[writerKey] = pw
	p.files[writerKey] = fw
	return pw, nil
}

// Close flushes every open writer. It keeps going after a failure and
// returns the last error seen.
func (p *ParquetOutput) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var lastErr error
	for key, pw := range p.writers {
		if err := pw.WriteStop(); err != nil {
			lastErr = err
			zap.L().Error("error closing parquet writer", zap.String("partition", key), zap.Error(err))
		}
		if f, ok := p.files[key]; ok {
			if err := f.Close(); err != nil {
				lastErr = err
				zap.L().Error("error closing parquet file", zap.String("partition", key), zap.Error(err))
			}
		}
		delete(p.writers, key)
		delete(p.files, key)
	}
	return lastErr
}

// CloudParquetFile adapts a CloudWriter to the write side of
// source.ParquetFile.
type CloudParquetFile struct {
	cloudWriter cloudwriter.CloudWriter
	offset      int64
}

func NewCloudParquetFile(cloudWriter cloudwriter.CloudWriter) *CloudParquetFile {
	return &CloudParquetFile{cloudWriter: cloudWriter}
}

// Open and Create return the receiver: the object is created by writing it.
func (c *CloudParquetFile) Open(name string) (source.ParquetFile, error) {
	return c, nil
}

func (c *CloudParquetFile) Create(name string) (source.ParquetFile, error) {
	return c, nil
}

func (c *CloudParquetFile) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		c.offset = offset
	case io.SeekCurrent:
		c.offset += offset
	default:
		return 0, fmt.Errorf("seek from end not supported for cloud storage")
	}
	return c.offset, nil
}

func (c *CloudParquetFile) Read(p []byte) (int, error) {
	return 0, fmt.Errorf("read not supported for cloud storage")
}

func (c *CloudParquetFile) Write(p []byte) (int, error) {
	n, err := c.cloudWriter.Write(p)
	c.offset += int64(n)
	return n, err
}

func (c *CloudParquetFile) Close() error {
	return c.cloudWriter.Close()
}
