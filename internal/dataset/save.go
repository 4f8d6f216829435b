package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/ChizhovVadim/nnuedata/internal/config"
)

// Header is the first line of every written split.
const Header = "FEN,Evaluation"

// WriteExamples writes examples in the input format so a split can be fed back
// into Assemble. Mate scores are written as their centipawn equivalent.
func WriteExamples(w io.Writer, examples []Example) error {
	if _, err := io.WriteString(w, Header+"\n"); err != nil {
		return err
	}
	var buf []byte
	for i := range examples {
		buf = buf[:0]
		buf = append(buf, examples[i].Position...)
		buf = append(buf, ',')
		if examples[i].Score > 0 {
			buf = append(buf, '+')
		}
		buf = strconv.AppendInt(buf, int64(examples[i].Score), 10)
		buf = append(buf, '\n')
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

func SaveExamples(path string, examples []Example) error {
	w, err := CreateStream(path)
	if err != nil {
		return err
	}
	if err := WriteExamples(w, examples); err != nil {
		w.Close()
		return fmt.Errorf("save %v: %w", path, err)
	}
	return w.Close()
}

// Manifest describes one assembled dataset.
type Manifest struct {
	RunID          string        `json:"run_id"`
	CreatedAt      time.Time     `json:"created_at"`
	Input          string        `json:"input"`
	TrainingPath   string        `json:"training_path"`
	ValidationPath string        `json:"validation_path"`
	Config         config.Config `json:"config"`
	Report         *Report       `json:"report"`
}

func NewManifest(input string, cfg config.Config, report *Report) Manifest {
	return Manifest{
		RunID:     uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		Input:     input,
		Config:    cfg,
		Report:    report,
	}
}

func SaveManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	var tmp = path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func LoadManifest(path string) (Manifest, error) {
	var m Manifest
	data, err := os.ReadFile(path)
	if err != nil {
		return m, err
	}
	err = json.Unmarshal(data, &m)
	return m, err
}
