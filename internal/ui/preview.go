package ui

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG for DecodeConfig
	_ "image/png"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/five82/narrator/internal/session"
)

// photoInfo is what the preview panel shows about the captured photo.
type photoInfo struct {
	Name    string
	Path    string
	Size    string
	Width   int
	Height  int
	Facing  string
	TakenAt time.Time
}

func describePhoto(p session.Photo) photoInfo {
	info := photoInfo{
		Name:    filepath.Base(p.Path),
		Path:    p.Path,
		Size:    humanize.Bytes(uint64(p.Size())),
		Facing:  p.Facing.String(),
		TakenAt: p.TakenAt,
	}
	if p.Path == "" {
		info.Name = "photo"
	}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(p.Data)); err == nil {
		info.Width = cfg.Width
		info.Height = cfg.Height
	}
	return info
}

// Dimensions returns "WxH", or "unknown" when the image header could not be read.
func (i photoInfo) Dimensions() string {
	if i.Width <= 0 || i.Height <= 0 {
		return "unknown"
	}
	return fmt.Sprintf("%d×%d", i.Width, i.Height)
}

// renderPreview renders the photo details panel.
func (m Model) renderPreview(width int) string {
	styles := m.theme.Styles()
	info := m.preview

	label := styles.MutedText.Width(8)
	rows := []string{
		styles.AccentText.Bold(true).Render("Photo"),
		label.Render("File") + styles.Text.Render(truncateMiddle(info.Path, maxInt(width-12, 12))),
		label.Render("Size") + styles.Text.Render(info.Size),
		label.Render("Pixels") + styles.Text.Render(info.Dimensions()),
		label.Render("Camera") + styles.Text.Render(info.Facing),
		label.Render("Taken") + styles.Text.Render(info.TakenAt.Format("15:04:05")),
	}
	if info.Path == "" {
		rows[1] = label.Render("File") + styles.Text.Render(info.Name)
	}
	return styles.Panel.Width(width).Render(strings.Join(rows, "\n"))
}
