package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var ErrMediaNotFound = errors.New("catalog: media not found")

// Media is the read model of one PIM media asset. The binary payload is not
// held here; it is read on demand through storage by its Path.
type Media struct {
	ID        uuid.UUID
	Name      string
	Extension string
	Mime      string
	// Path locates the binary payload in storage
	Path string
	// Alt and Title are the translatable media texts
	Alt   TranslatedString
	Title TranslatedString
}

// RemoteFileName derives the filename the asset carries remotely. The remote
// platform rejects duplicate filenames, so the derived name embeds the media
// id to keep it stable and unique per asset.
func (m *Media) RemoteFileName() string {
	base := strings.TrimSuffix(m.Name, "."+m.Extension)
	if base == "" {
		base = m.Name
	}
	return fmt.Sprintf("%s_%s", base, m.ID)
}
