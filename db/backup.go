package db

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

const backupFileExt = ".bak"

// BackupPolicy controls whether ResetDatabase keeps a copy of the database it
// is about to remove.
type BackupPolicy struct {
	Enabled    bool
	MaxBackups int
}

func backupDatabase(dbPath string, maxBackups int, now time.Time, log *zap.SugaredLogger) (string, error) {
	backupPath := fmt.Sprintf("%s.%s%s", dbPath, now.Format("20060102-150405"), backupFileExt)
	if err := copyFile(dbPath, backupPath, log); err != nil {
		return "", err
	}
	pruneOldBackups(dbPath, maxBackups, log)
	return backupPath, nil
}

func copyFile(src, dst string, log *zap.SugaredLogger) error {
	sourceFileStat, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !sourceFileStat.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", src)
	}

	source, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func(source *os.File) {
		if err := source.Close(); err != nil {
			log.Warnf("failed to close file %s: %v", src, err)
		}
	}(source)

	destination, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func(destination *os.File) {
		if err := destination.Close(); err != nil {
			log.Warnf("failed to close file %s: %v", dst, err)
		}
	}(destination)

	_, err = destination.ReadFrom(source)
	return err
}

// listBackups returns the backups of dbPath, oldest first.
func listBackups(dbPath string) ([]string, error) {
	dir := filepath.Dir(dbPath)
	prefix := filepath.Base(dbPath) + "."
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var backups []string
	for _, f := range files {
		if strings.HasPrefix(f.Name(), prefix) && strings.HasSuffix(f.Name(), backupFileExt) {
			backups = append(backups, filepath.Join(dir, f.Name()))
		}
	}
	sort.Strings(backups)
	return backups, nil
}

func pruneOldBackups(dbPath string, max int, log *zap.SugaredLogger) {
	backups, err := listBackups(dbPath)
	if err != nil {
		log.Warnf("failed to read backup directory: %v", err)
		return
	}
	if len(backups) <= max {
		return
	}

	for _, file := range backups[:len(backups)-max] {
		if err := os.Remove(file); err != nil {
			log.Warnf("failed to remove old backup %s: %v", file, err)
		} else {
			log.Infof("removed old backup: %s", file)
		}
	}
}
