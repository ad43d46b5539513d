package version

import (
	"fmt"
	"strings"

	"nuggets-server/internal/domain"
	"nuggets-server/internal/infrastructure/storage"
	"nuggets-server/pkg/api"
)

// Заполняются через -ldflags "-X nuggets-server/internal/version.Release=..."
var (
	Release string // v1.2.0; пусто у локальной сборки
	Commit  string
	Date    string // YYYY-MM-DD (UTC)
)

// Protocol - то, что сервер понимает на проводе
type Protocol struct {
	Verbs           []string `json:"verbs"`
	MaxMessageBytes int      `json:"maxMessageBytes"`
	MaxPlayers      int      `json:"maxPlayers"`
	MaxNameLength   int      `json:"maxNameLength"`
}

// RecordFormat - формат файлов записи партий (-record / -replay)
type RecordFormat struct {
	Magic   string `json:"magic"`
	Version uint32 `json:"version"`
	Ext     string `json:"ext"`
}

// VersionInfo - ответ /version
type VersionInfo struct {
	Release  string       `json:"release"`
	Commit   string       `json:"commit"`
	Date     string       `json:"date,omitempty"`
	Protocol Protocol     `json:"protocol"`
	Record   RecordFormat `json:"record"`
}

func Info() VersionInfo {
	return VersionInfo{
		Release: coalesce(Release, "dev"),
		Commit:  coalesce(Commit, "unknown"),
		Date:    Date,
		Protocol: Protocol{
			Verbs:           []string{api.VerbPlay, api.VerbSpectate, api.VerbKey},
			MaxMessageBytes: api.MaxMessageBytes,
			MaxPlayers:      domain.MaxPlayers,
			MaxNameLength:   domain.MaxNameLength,
		},
		Record: RecordFormat{
			Magic:   storage.MagicHeader,
			Version: storage.Version1,
			Ext:     storage.FileExt,
		},
	}
}

// String - строка для лога при старте
func String() string {
	info := Info()
	s := fmt.Sprintf("nuggets-server %s commit[%s] protocol[%s] record[%s v%d]",
		info.Release,
		info.Commit,
		strings.Join(info.Protocol.Verbs, ","),
		info.Record.Magic,
		info.Record.Version,
	)
	if info.Date != "" {
		s += " built " + info.Date
	}
	return s
}

func coalesce(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
