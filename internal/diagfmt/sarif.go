package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"chamber/internal/diag"
	"chamber/internal/source"
)

const (
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
	sarifVersion = "2.1.0"
)

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
	Results     []sarifResult     `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	ShortDescription sarifMessage `json:"shortDescription"`
	DefaultConfig    sarifConfig  `json:"defaultConfiguration"`
}

type sarifConfig struct {
	Level string `json:"level"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations"`
	Related   []sarifLocation `json:"relatedLocations,omitempty"`
}

type sarifLocation struct {
	Physical sarifPhysical `json:"physicalLocation"`
	Message  *sarifMessage `json:"message,omitempty"`
}

type sarifPhysical struct {
	Artifact sarifArtifact `json:"artifactLocation"`
	Region   sarifRegion   `json:"region"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine"`
	StartColumn uint32 `json:"startColumn"`
	EndLine     uint32 `json:"endLine"`
	EndColumn   uint32 `json:"endColumn"`
	ByteOffset  uint32 `json:"byteOffset"`
	ByteLength  uint32 `json:"byteLength"`
}

func sarifLevel(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "note"
	}
}

// Sarif форматирует диагностики в SARIF формат (v2.1.0). Правила перечисляются
// по всем известным кодам, ruleIndex указывает на них.
func Sarif(w io.Writer, reports []Report, meta SarifRunMeta) error {
	codes := diag.AllCodes()
	ruleIndex := make(map[diag.Code]int, len(codes))
	rules := make([]sarifRule, 0, len(codes))
	for i, c := range codes {
		ruleIndex[c] = i
		rules = append(rules, sarifRule{
			ID:               c.ID(),
			Name:             c.Name(),
			ShortDescription: sarifMessage{Text: c.Title()},
			DefaultConfig:    sarifConfig{Level: sarifLevel(c.DefaultSeverity())},
		})
	}

	run := sarifRun{
		Tool: sarifTool{Driver: sarifDriver{
			Name:           meta.ToolName,
			Version:        meta.ToolVersion,
			InformationURI: meta.InformationURI,
			Rules:          rules,
		}},
		Results: make([]sarifResult, 0),
	}
	failed := false
	for _, r := range reports {
		uri := r.path(meta.PathMode, meta.BaseDir)
		for _, d := range r.Diagnostics {
			failed = failed || d.IsError()
			res := sarifResult{
				RuleID:    d.Code.ID(),
				RuleIndex: ruleIndex[d.Code],
				Level:     sarifLevel(d.Severity),
				Message:   sarifMessage{Text: d.Message},
				Locations: []sarifLocation{sarifLoc(r, uri, d.Range.Start, d.Range.End, "")},
			}
			for _, l := range d.Labels {
				res.Related = append(res.Related, sarifLoc(r, uri, l.Range.Start, l.Range.End, l.Message))
			}
			run.Results = append(run.Results, res)
		}
	}
	run.Invocations = []sarifInvocation{{Arguments: meta.InvocationArgs, ExecutionSuccessful: !failed}}

	log := sarifLog{Schema: sarifSchema, Version: sarifVersion, Runs: []sarifRun{run}}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(log); err != nil {
		return fmt.Errorf("diagfmt: encode sarif: %w", err)
	}
	return nil
}

func sarifLoc(r Report, uri string, startPos, endPos source.Pos, msg string) sarifLocation {
	start, end := r.resolve(source.NewRange(startPos, endPos))
	loc := sarifLocation{Physical: sarifPhysical{
		Artifact: sarifArtifact{URI: uri},
		Region: sarifRegion{
			StartLine:   start.Line,
			StartColumn: start.Col,
			EndLine:     end.Line,
			EndColumn:   end.Col,
			ByteOffset:  uint32(startPos),
			ByteLength:  uint32(endPos - startPos),
		},
	}}
	if msg != "" {
		loc.Message = &sarifMessage{Text: msg}
	}
	return loc
}
