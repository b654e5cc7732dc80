package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"casevalue-backend/bootstrap"
	"casevalue-backend/config"
	"casevalue-backend/logging"
	"casevalue-backend/models"
	"casevalue-backend/service"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const defaultCasesDir = "./historical_cases"

// caseFile is one historical case as stored on disk
type caseFile struct {
	ID              string              `json:"id"`
	Title           string              `json:"title"`
	Description     string              `json:"description"`
	Metadata        models.CaseMetadata `json:"metadata"`
	SettlementValue *float64            `json:"settlement_value"`
}

func main() {
	if err := godotenv.Load(); err != nil {
		_ = godotenv.Load("../../.env")
	}

	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := logging.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}
	log := logging.Component("index-cases")

	source := defaultCasesDir
	if len(os.Args) > 1 {
		source = os.Args[1]
	}

	cases, err := loadCases(source)
	if err != nil {
		log.WithError(err).Fatal("Failed to load cases")
	}
	log.WithFields(logrus.Fields{"source": source, "cases": len(cases)}).Info("Loaded historical cases")

	app, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize application")
	}
	defer app.Close()

	var indexed, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.IndexWorkers)

	for _, cf := range cases {
		g.Go(func() error {
			req, err := cf.request()
			if err != nil {
				failed.Add(1)
				log.WithError(err).WithField("title", cf.Title).Warn("Skipping case")
				return nil
			}

			res, err := app.Service.IndexCase(gctx, req)
			if err != nil {
				failed.Add(1)
				log.WithError(err).WithField("title", cf.Title).Error("Failed to index case")
				return nil
			}

			n := indexed.Add(1)
			log.WithFields(logrus.Fields{"id": res.Case.ID, "n": n}).Debug("Indexed case")
			return nil
		})
	}
	_ = g.Wait()

	total, err := app.Cases.Count(ctx)
	if err != nil {
		log.WithError(err).Warn("Failed to count corpus")
	}

	log.WithFields(logrus.Fields{
		"indexed": indexed.Load(),
		"failed":  failed.Load(),
		"corpus":  total,
	}).Info("✅ Indexing complete")

	if failed.Load() > 0 {
		app.Close()
		os.Exit(1)
	}
}

func (cf caseFile) request() (service.IndexCaseRequest, error) {
	req := service.IndexCaseRequest{
		Title:           cf.Title,
		Description:     cf.Description,
		Metadata:        cf.Metadata,
		SettlementValue: cf.SettlementValue,
	}
	if cf.ID != "" {
		id, err := uuid.Parse(cf.ID)
		if err != nil {
			return req, fmt.Errorf("invalid id %q: %w", cf.ID, err)
		}
		req.ID = id
	}
	return req, nil
}

// loadCases reads a .json array, a .jsonl file or a directory of either.
func loadCases(path string) ([]caseFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return loadFile(path)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var out []caseFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".json" && ext != ".jsonl" {
			continue
		}
		cases, err := loadFile(filepath.Join(path, e.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, cases...)
	}
	return out, nil
}

func loadFile(path string) ([]caseFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".jsonl") {
		return parseJSONL(path, data)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var one caseFile
		if err := json.Unmarshal(trimmed, &one); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return []caseFile{one}, nil
	}

	var many []caseFile
	if err := json.Unmarshal(trimmed, &many); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return many, nil
}

func parseJSONL(path string, data []byte) ([]caseFile, error) {
	var out []caseFile
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		var cf caseFile
		if err := json.Unmarshal(text, &cf); err != nil {
			return nil, fmt.Errorf("failed to parse %s line %d: %w", path, line, err)
		}
		out = append(out, cf)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Join(fmt.Errorf("failed to scan %s", path), err)
	}
	return out, nil
}
