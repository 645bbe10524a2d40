package jj

import (
	"context"
	"fmt"
	"strings"
)

// Structured log template wire format: fields joined by a literal ";", each
// record closed by a sentinel line. Splitting the stream on the sentinel
// (rather than on newlines) lets descriptions carry embedded newlines, and
// splitting the description last lets it carry embedded ";".
const (
	fieldSeparator   = ";"
	recordTerminator = "---END-CHANGE---"
)

// changeTemplate renders one record per change. An empty description is
// rendered as a single space so the field count stays fixed.
const changeTemplate = `change_id.short(8) ++ ";" ++ commit_id ++ ";" ++ if(description, description, " ") ++ "\n---END-CHANGE---\n"`

// Change is a read-only snapshot of a jj change. It goes stale the moment
// any mutating command runs; callers must re-query the log rather than
// trusting a held Change.
type Change struct {
	ChangeID    string
	CommitID    string
	Description string
}

// HasDescription reports whether the change carries a non-blank description.
func (c Change) HasDescription() bool {
	return strings.TrimSpace(c.Description) != ""
}

// LogOutput pairs the rendered (ANSI-colored) log with the structural
// metadata needed to map rendered lines back to changes.
type LogOutput struct {
	RawANSI      string   // Pretty output from jj log --color=always
	LineToChange []string // lineIndex -> changeID (empty for unmapped lines)
	Changes      []ChangeInfo
}

// ChangeInfo locates one change inside the rendered log.
type ChangeInfo struct {
	ChangeID  string
	CommitID  string
	StartLine int // First line in RawANSI (0-indexed)
	EndLine   int // Last line (exclusive)
}

// Log fetches the log in two passes: the pretty ANSI rendering for display,
// and a structured pass to map rendered lines to change IDs. revset may be
// empty to use the jj default.
func Log(ctx context.Context, r CommandRunner, revset string) (*LogOutput, error) {
	prettyArgs := []string{"log", "--color=always"}
	if revset != "" {
		prettyArgs = append(prettyArgs, "-r", revset)
	}
	pretty, err := r.Run(ctx, prettyArgs...)
	if err != nil {
		return nil, err
	}

	structuredArgs := []string{"log", "--no-graph", "-T", changeTemplate}
	if revset != "" {
		structuredArgs = append(structuredArgs, "-r", revset)
	}
	structured, err := r.Run(ctx, structuredArgs...)
	if err != nil {
		return nil, err
	}

	changes, err := ParseChanges(structured.Stdout)
	if err != nil {
		return nil, err
	}

	return mapLines(pretty.Stdout, changes), nil
}

// ParseChanges parses structured template output into Change records.
// Identifiers are trimmed; descriptions are preserved verbatim except that a
// blank (whitespace-only) description is normalized to the empty string,
// since the template renders "no description" as a single space.
func ParseChanges(output string) ([]Change, error) {
	records := strings.Split(output, "\n"+recordTerminator+"\n")
	var changes []Change
	for _, rec := range records {
		if strings.TrimSpace(rec) == "" {
			continue
		}
		fields := strings.SplitN(rec, fieldSeparator, 3)
		if len(fields) != 3 {
			return nil, fmt.Errorf("malformed change record %q", truncateRecord(rec))
		}
		desc := fields[2]
		if strings.TrimSpace(desc) == "" {
			desc = ""
		}
		changes = append(changes, Change{
			ChangeID:    strings.TrimSpace(fields[0]),
			CommitID:    strings.TrimSpace(fields[1]),
			Description: desc,
		})
	}
	return changes, nil
}

// Changes fetches the structured change list for a revset (empty for the
// jj default) without the rendered log.
func Changes(ctx context.Context, r CommandRunner, revset string) ([]Change, error) {
	args := []string{"log", "--no-graph", "-T", changeTemplate}
	if revset != "" {
		args = append(args, "-r", revset)
	}
	res, err := r.Run(ctx, args...)
	if err != nil {
		return nil, err
	}
	return ParseChanges(res.Stdout)
}

// Descriptions fetches the descriptions of the given change IDs via the
// structured template. Getting back a different number of records than
// requested is a hard error: mismatched data must never be zipped silently.
func Descriptions(ctx context.Context, r CommandRunner, ids []string) (map[string]string, error) {
	if len(ids) == 0 {
		return map[string]string{}, nil
	}
	res, err := r.Run(ctx, "log", "--no-graph", "-r", Revset(ids), "-T", changeTemplate)
	if err != nil {
		return nil, err
	}
	changes, err := ParseChanges(res.Stdout)
	if err != nil {
		return nil, err
	}
	if len(changes) != len(ids) {
		return nil, fmt.Errorf("could not get change information: requested %d change(s), got %d", len(ids), len(changes))
	}
	out := make(map[string]string, len(changes))
	for _, c := range changes {
		out[c.ChangeID] = c.Description
	}
	return out, nil
}

// Description fetches the description of the single change selected by the
// revset. The revset may use shorthand like "abc-" (parent of abc); exactly
// one record must come back.
func Description(ctx context.Context, r CommandRunner, revset string) (string, error) {
	res, err := r.Run(ctx, "log", "--no-graph", "-r", revset, "-T", changeTemplate)
	if err != nil {
		return "", err
	}
	changes, err := ParseChanges(res.Stdout)
	if err != nil {
		return "", err
	}
	if len(changes) != 1 {
		return "", fmt.Errorf("could not get change information: revset %q selected %d change(s)", revset, len(changes))
	}
	return changes[0].Description, nil
}

// mapLines assigns each rendered line to the change whose short ID appears
// on it, carrying the assignment forward across continuation lines.
func mapLines(rawANSI string, changes []Change) *LogOutput {
	infos := make([]ChangeInfo, len(changes))
	for i, c := range changes {
		infos[i] = ChangeInfo{ChangeID: c.ChangeID, CommitID: c.CommitID, StartLine: -1}
	}

	lines := strings.Split(rawANSI, "\n")
	lineToChange := make([]string, len(lines))

	current := -1
	for i, line := range lines {
		plain := StripANSI(line)
		for idx := range infos {
			if infos[idx].StartLine == -1 && strings.Contains(plain, infos[idx].ChangeID) {
				current = idx
				infos[idx].StartLine = i
				break
			}
		}
		if current >= 0 {
			lineToChange[i] = infos[current].ChangeID
		}
	}

	for i := range infos {
		if infos[i].StartLine == -1 {
			infos[i].StartLine = 0
		}
		if i < len(infos)-1 && infos[i+1].StartLine != -1 {
			infos[i].EndLine = infos[i+1].StartLine
		} else {
			infos[i].EndLine = len(lines)
		}
	}

	return &LogOutput{
		RawANSI:      rawANSI,
		LineToChange: lineToChange,
		Changes:      infos,
	}
}

func truncateRecord(rec string) string {
	if len(rec) > 60 {
		return rec[:60] + "..."
	}
	return rec
}
