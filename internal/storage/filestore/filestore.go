// Пакет filestore — операции с физическими файлами (blob) на диске.
// Запись идёт через временный файл с fsync и атомарным rename,
// чтобы в директории загрузок не оставалось полузаписанных blob.
package filestore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileStore — хранилище blob в директории загрузок.
// Имена файлов приходят уже проверенными (Filename Sanitizer +
// Unique Name Generator), filestore их не интерпретирует.
type FileStore struct {
	// dataDir — корневая директория хранения (MD_UPLOAD_DIR)
	dataDir string
}

// New создаёт новый FileStore. Проверяет и создаёт директорию,
// если она не существует.
func New(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию загрузок %s: %w", dataDir, err)
	}
	return &FileStore{dataDir: dataDir}, nil
}

// Save записывает данные из reader в blob с именем storedName.
// Паттерн: temp файл → запись → fsync → атомарный rename.
// При ошибке temp файл удаляется. Возвращает размер записанных данных.
func (fs *FileStore) Save(reader io.Reader, storedName string) (int64, error) {
	fullPath := filepath.Join(fs.dataDir, storedName)
	tmpPath := fullPath + ".tmp"

	f, err := os.Create(tmpPath)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания временного файла: %w", err)
	}

	size, err := io.Copy(f, reader)
	if err != nil {
		f.Close()
		os.Remove(tmpPath)
		return 0, fmt.Errorf("ошибка записи данных: %w", err)
	}

	// fsync для гарантии записи на диск
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return 0, fmt.Errorf("ошибка fsync: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("ошибка закрытия файла: %w", err)
	}

	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("ошибка атомарного переименования: %w", err)
	}

	return size, nil
}

// Open открывает blob для чтения. Вызывающий код обязан закрыть файл.
func (fs *FileStore) Open(storedName string) (*os.File, error) {
	fullPath := filepath.Join(fs.dataDir, storedName)

	f, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("blob не найден: %s", storedName)
		}
		return nil, fmt.Errorf("ошибка открытия blob %s: %w", storedName, err)
	}
	return f, nil
}

// Delete удаляет blob с диска.
// Если blob уже отсутствует — возвращает ErrNotExist-ошибку ОС,
// различение «уже удалён» и прочих сбоев остаётся за вызывающим кодом.
func (fs *FileStore) Delete(storedName string) error {
	return os.Remove(filepath.Join(fs.dataDir, storedName))
}

// Exists проверяет существование blob на диске.
func (fs *FileStore) Exists(storedName string) bool {
	_, err := os.Stat(filepath.Join(fs.dataDir, storedName))
	return err == nil
}

// Size возвращает размер blob на диске.
func (fs *FileStore) Size(storedName string) (int64, error) {
	info, err := os.Stat(filepath.Join(fs.dataDir, storedName))
	if err != nil {
		return 0, fmt.Errorf("ошибка получения информации о blob %s: %w", storedName, err)
	}
	return info.Size(), nil
}

// DataDir возвращает путь к директории загрузок.
func (fs *FileStore) DataDir() string {
	return fs.dataDir
}

// CheckReady проверяет доступность директории загрузок для health endpoint.
// Возвращает статус ("ok", "fail") и сообщение.
func (fs *FileStore) CheckReady() (status string, message string) {
	info, err := os.Stat(fs.dataDir)
	if err != nil {
		return "fail", fmt.Sprintf("директория загрузок недоступна: %v", err)
	}
	if !info.IsDir() {
		return "fail", fmt.Sprintf("%s не является директорией", fs.dataDir)
	}
	return "ok", "директория загрузок доступна"
}
