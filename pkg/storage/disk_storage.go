package storage

import (
	"compress/gzip"
	"encoding/gob"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
)

const (
	productsFile   = "products.json"
	categoriesFile = "categories.json"
)

// DiskStorage persists application state as flat files under a data
// directory. Writes go to a temp file first and are renamed into place so a
// crash never leaves a half written file behind.
type DiskStorage struct {
	Path string
}

func NewDiskStorage(path string) *DiskStorage {
	return &DiskStorage{Path: path}
}

func (d *DiskStorage) GetFileName(name string) (string, string) {
	fileName := filepath.Join(d.Path, name)
	return fileName, fileName + ".tmp"
}

func (d *DiskStorage) SaveJson(data any, name string) error {
	fileName, tmpFileName := d.GetFileName(name)
	if err := os.MkdirAll(d.Path, 0755); err != nil {
		return err
	}
	file, err := os.Create(tmpFileName)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(file)
	err = enc.Encode(data)
	file.Close()
	if err != nil {
		return err
	}
	return os.Rename(tmpFileName, fileName)
}

func (d *DiskStorage) LoadJson(data any, name string) error {
	fileName, _ := d.GetFileName(name)
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	err = json.NewDecoder(file).Decode(data)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (d *DiskStorage) SaveGzippedGob(data any, name string) error {
	fileName, tmpFileName := d.GetFileName(name)
	if err := os.MkdirAll(d.Path, 0755); err != nil {
		return err
	}
	file, err := os.Create(tmpFileName)
	if err != nil {
		return err
	}
	defer file.Close()

	zipWriter := gzip.NewWriter(file)
	if err := gob.NewEncoder(zipWriter).Encode(data); err != nil {
		return err
	}
	if err := zipWriter.Close(); err != nil {
		return err
	}
	return os.Rename(tmpFileName, fileName)
}

func (d *DiskStorage) LoadGzippedGob(data any, name string) error {
	fileName, _ := d.GetFileName(name)
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	zipReader, err := gzip.NewReader(file)
	if err != nil {
		return err
	}
	defer zipReader.Close()

	err = gob.NewDecoder(zipReader).Decode(data)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
