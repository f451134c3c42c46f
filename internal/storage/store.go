package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/polypath/internal/tracker"
)

// Store persists solve runs under a base directory, one subdirectory per
// run holding metadata.json and roots.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID            string        `json:"id"`
	Problem       string        `json:"problem"`
	Timestamp     time.Time     `json:"timestamp"`
	Dimension     int           `json:"dimension"`
	Paths         int           `json:"paths"`
	Converged     int           `json:"converged"`
	DistinctRoots int           `json:"distinct_roots"`
	Stopped       int           `json:"stopped"`
	Stalled       int           `json:"stalled"`
	Failed        int           `json:"failed"`
	Integrator    string        `json:"integrator"`
	GammaSeed     int64         `json:"gamma_seed"`
	Elapsed       time.Duration `json:"elapsed"`
}

// Save writes the summary of one solve and returns the run ID.
func (s *Store) Save(problem, integrator string, gammaSeed int64, dimension int, summary *tracker.Summary) (string, error) {
	runID := fmt.Sprintf("%s_%d", problem, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:            runID,
		Problem:       problem,
		Timestamp:     time.Now(),
		Dimension:     dimension,
		Paths:         len(summary.Results),
		Converged:     summary.Converged,
		DistinctRoots: len(summary.Roots),
		Stopped:       summary.Stopped,
		Stalled:       summary.Stalled,
		Failed:        summary.Failed,
		Integrator:    integrator,
		GammaSeed:     gammaSeed,
		Elapsed:       summary.Elapsed,
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "roots.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	header := []string{"path", "status", "residual", "steps", "endgame_steps"}
	for i := 0; i < dimension; i++ {
		header = append(header, fmt.Sprintf("re%d", i), fmt.Sprintf("im%d", i))
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, r := range summary.Results {
		row := []string{
			strconv.Itoa(r.Path),
			r.Status.String(),
			strconv.FormatFloat(r.Residual, 'e', 8, 64),
			strconv.Itoa(r.StepsTaken),
			strconv.Itoa(r.EndgameSteps),
		}
		for _, z := range r.Root {
			row = append(row,
				strconv.FormatFloat(real(z), 'f', 12, 64),
				strconv.FormatFloat(imag(z), 'f', 12, 64))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

// List returns metadata for every stored run.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

// Load reads the metadata of one run.
func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadRoots reads back the per-path roots of a run as complex vectors.
func (s *Store) LoadRoots(runID string) ([][]complex128, []string, error) {
	csvPath := filepath.Join(s.baseDir, runID, "roots.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) < 2 {
		return [][]complex128{}, []string{}, nil
	}

	roots := make([][]complex128, 0, len(records)-1)
	statuses := make([]string, 0, len(records)-1)

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 5 {
			continue
		}
		statuses = append(statuses, record[1])

		root := make([]complex128, 0)
		for j := 5; j+1 < len(record); j += 2 {
			re, err1 := strconv.ParseFloat(record[j], 64)
			im, err2 := strconv.ParseFloat(record[j+1], 64)
			if err1 != nil || err2 != nil {
				continue
			}
			root = append(root, complex(re, im))
		}
		roots = append(roots, root)
	}

	return roots, statuses, nil
}
