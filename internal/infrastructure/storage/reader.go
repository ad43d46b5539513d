package storage

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"nuggets-server/internal/domain"
)

func (s *RecordService) Load(path string) (*domain.GameRecord, error) {
	return LoadFile(path)
}

// LoadFile читает запись по полному пути
func LoadFile(path string) (*domain.GameRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rec, err := readBinary(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rec, nil
}

func readBinary(r io.Reader) (*domain.GameRecord, error) {
	// 1. Читаем заголовок целиком
	var header RecordFileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Валидация
	if string(header.Magic[:]) != MagicHeader {
		return nil, fmt.Errorf("invalid magic")
	}
	if header.Version != Version1 {
		return nil, fmt.Errorf("unsupported version: %d (expected %d)", header.Version, Version1)
	}
	if header.MessageCount < 0 {
		return nil, fmt.Errorf("negative message count: %d", header.MessageCount)
	}

	session, err := readString(r, int(header.SessionLen))
	if err != nil {
		return nil, fmt.Errorf("failed to read session id: %w", err)
	}
	mapName, err := readString(r, int(header.MapNameLen))
	if err != nil {
		return nil, fmt.Errorf("failed to read map name: %w", err)
	}

	rec := &domain.GameRecord{
		SessionID: session,
		Seed:      header.Seed,
		GoldTotal: int(header.GoldTotal),
		MinPiles:  int(header.MinPiles),
		MaxPiles:  int(header.MaxPiles),
		Plain:     header.Flags&flagPlain != 0,
		Timestamp: header.Timestamp,
		MapName:   mapName,
		Messages:  make([]domain.RecordedMessage, header.MessageCount),
	}

	// 2. Читаем сообщения
	for i := range rec.Messages {
		var mh MessageHeader
		if err := binary.Read(r, binary.LittleEndian, &mh); err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		from, err := readString(r, int(mh.FromLen))
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		text, err := readString(r, int(mh.TextLen))
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		rec.Messages[i] = domain.RecordedMessage{
			Seq:  int(mh.Seq),
			From: domain.Addr(from),
			Text: text,
		}
	}

	return rec, nil
}

func readString(r io.Reader, n int) (string, error) {
	if n == 0 {
		return "", nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
