package beepengine

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"github.com/google/uuid"

	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/domain"
)

// GetMetadata extracts metadata from an audio file without loading it for
// playback. Missing or unreadable tags degrade to filename-derived values;
// only an unreadable file is an error.
func (e *Engine) GetMetadata(filePath string) (*domain.MusicTrack, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, domain.NewAudioEngineError("metadata", filePath, "cannot open file", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && e.logger != nil {
			e.logger.Warn("failed to close file after metadata read")
		}
	}()

	track := &domain.MusicTrack{
		ID:         uuid.NewString(),
		FilePath:   filePath,
		Title:      titleFromPath(filePath),
		FileFormat: strings.TrimPrefix(strings.ToLower(filepath.Ext(filePath)), "."),
		Metadata:   &domain.TrackMetadata{},
	}

	meta, err := tag.ReadFrom(f)
	if err != nil {
		// No usable tags; the filename-derived track is still valid.
		return track, nil
	}

	if title := meta.Title(); title != "" {
		track.Title = title
	}
	track.Artist = meta.Artist()
	track.Album = meta.Album()
	track.Metadata.Genre = meta.Genre()
	track.Metadata.Year = meta.Year()

	trackNum, _ := meta.Track()
	track.Metadata.TrackNumber = trackNum

	if pic := meta.Picture(); pic != nil {
		track.Metadata.AlbumArt = pic.Data
	}

	return track, nil
}

// titleFromPath derives a display title from the file name.
func titleFromPath(filePath string) string {
	base := filepath.Base(filePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
