package storage

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"nuggets-server/internal/domain"
)

const (
	MagicHeader string = `NGRC` // 4 байта
	Version1    uint32 = 1
	FileExt     string = ".ngrc"
)

const flagPlain uint32 = 1 << 0

// RecordFileHeader - это точное представление заголовка файла в памяти.
// binary.Write умеет писать это целиком, так как тут нет слайсов и строк, только массивы и числа.
type RecordFileHeader struct {
	Magic        [4]byte // 4 байта
	Version      uint32  // 4 байта
	Seed         int64   // 8 байт
	Timestamp    int64   // 8 байт
	GoldTotal    int32   // 4 байта
	MinPiles     int32   // 4 байта
	MaxPiles     int32   // 4 байта
	Flags        uint32  // 4 байта
	MessageCount int32   // 4 байта
	SessionLen   uint8   // 1 байт
	MapNameLen   uint16  // 2 байта
}

// MessageHeader - заголовок каждой записи сообщения.
type MessageHeader struct {
	Seq     int32  // 4
	FromLen uint8  // 1
	TextLen uint16 // 2
}

type RecordService struct {
	SaveDir string
}

func NewRecordService(dir string) (*RecordService, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create record dir %s: %w", dir, err)
	}
	return &RecordService{SaveDir: dir}, nil
}

// Save пишет запись в SaveDir и возвращает путь к файлу
func (s *RecordService) Save(rec *domain.GameRecord) (string, error) {
	filename := fmt.Sprintf("game_%d_%s%s", rec.Timestamp, rec.SessionID, FileExt)
	path := filepath.Join(s.SaveDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if err := writeBinary(bw, rec); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		return "", fmt.Errorf("flush %s: %w", path, err)
	}
	return path, nil
}

func writeBinary(w io.Writer, rec *domain.GameRecord) error {
	if len(rec.SessionID) > 255 {
		return fmt.Errorf("session id too long: %d", len(rec.SessionID))
	}
	if len(rec.MapName) > 65535 {
		return fmt.Errorf("map name too long: %d", len(rec.MapName))
	}

	// 1. Подготавливаем и пишем ГЛОБАЛЬНЫЙ ЗАГОЛОВОК
	header := RecordFileHeader{
		Version:      Version1,
		Seed:         rec.Seed,
		Timestamp:    rec.Timestamp,
		GoldTotal:    int32(rec.GoldTotal),
		MinPiles:     int32(rec.MinPiles),
		MaxPiles:     int32(rec.MaxPiles),
		MessageCount: int32(len(rec.Messages)),
		SessionLen:   uint8(len(rec.SessionID)),
		MapNameLen:   uint16(len(rec.MapName)),
	}
	if rec.Plain {
		header.Flags |= flagPlain
	}
	copy(header.Magic[:], MagicHeader) // Копируем строку в массив [4]byte

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := io.WriteString(w, rec.SessionID); err != nil {
		return err
	}
	if _, err := io.WriteString(w, rec.MapName); err != nil {
		return err
	}

	// 2. Пишем сообщения
	for _, msg := range rec.Messages {
		if len(msg.From) > 255 {
			return fmt.Errorf("address too long: %d", len(msg.From))
		}
		if len(msg.Text) > 65535 {
			return fmt.Errorf("message too long: %d", len(msg.Text))
		}

		msgHeader := MessageHeader{
			Seq:     int32(msg.Seq),
			FromLen: uint8(len(msg.From)),
			TextLen: uint16(len(msg.Text)),
		}
		if err := binary.Write(w, binary.LittleEndian, &msgHeader); err != nil {
			return err
		}

		// Пишем динамические данные (тело)
		if _, err := io.WriteString(w, string(msg.From)); err != nil {
			return err
		}
		if _, err := io.WriteString(w, msg.Text); err != nil {
			return err
		}
	}

	return nil
}
