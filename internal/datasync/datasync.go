// Package datasync copies journal data between layouts on explicit user
// command: the legacy composite-key documents into the structured layout,
// and the structured layout out to YAML.
package datasync

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/kizuna/internal/docstore"
	"github.com/at-ishikawa/kizuna/internal/encounter"
	"github.com/at-ishikawa/kizuna/internal/normalize"
	"github.com/at-ishikawa/kizuna/internal/person"
	"github.com/at-ishikawa/kizuna/internal/resolve"
)

// MigrateResult tracks counts for one migration run.
type MigrateResult struct {
	PeopleNew        int
	PeopleMerged     int
	EncountersNew    int
	EncountersMerged int
	Skipped          int
}

// MigrateOptions controls migration behavior.
type MigrateOptions struct {
	DryRun bool
}

// Migrator reads the legacy layout (people keyed by composite identifier
// with per-day entry subcollections) and upserts everything into the
// structured layout through normalized-name resolution. Legacy documents
// are left in place; re-running merges instead of duplicating.
type Migrator struct {
	store  docstore.Store
	owner  string
	writer io.Writer
}

// NewMigrator creates a new Migrator.
func NewMigrator(store docstore.Store, owner string, writer io.Writer) *Migrator {
	return &Migrator{store: store, owner: owner, writer: writer}
}

// Run migrates every legacy person and its day entries.
func (m *Migrator) Run(ctx context.Context, opts MigrateOptions) (*MigrateResult, error) {
	var result MigrateResult
	strategy := resolve.NewNormalizedNameStrategy(m.store, m.owner)
	peoplePath := resolve.CollectionPath(m.owner, person.Collection)

	docs, err := m.store.FindAll(ctx, peoplePath)
	if err != nil {
		return nil, fmt.Errorf("store.FindAll(%s) > %w", peoplePath, err)
	}

	for _, doc := range docs {
		// Structured documents live in the same collection; only legacy
		// ones, keyed by identifier and lacking a normalized name, migrate.
		if docstore.StringField(doc.Data, person.FieldNormalizedName) != "" {
			continue
		}

		identifier := doc.ID
		rawName := docstore.StringField(doc.Data, resolve.LegacyFieldName)
		memo := docstore.StringField(doc.Data, resolve.LegacyFieldMemo)
		if normalize.Name(rawName) == "" {
			fmt.Fprintf(m.writer, "  [SKIP]  %q: no usable name\n", identifier)
			result.Skipped++
			continue
		}

		p, personExisted, err := m.migratePerson(ctx, strategy, peoplePath, rawName, memo, opts)
		if err != nil {
			return nil, err
		}
		if personExisted {
			fmt.Fprintf(m.writer, "  [MERGE] person %q\n", identifier)
			result.PeopleMerged++
		} else {
			fmt.Fprintf(m.writer, "  [NEW]   person %q\n", identifier)
			result.PeopleNew++
		}

		if err := m.migrateEntries(ctx, strategy, identifier, p, opts, &result); err != nil {
			return nil, err
		}
	}

	return &result, nil
}

// migratePerson reports whether the structured person already existed, and
// upserts it unless this is a dry run.
func (m *Migrator) migratePerson(ctx context.Context, strategy resolve.Strategy, peoplePath, rawName, memo string, opts MigrateOptions) (*person.Person, bool, error) {
	existing, err := m.store.FindByField(ctx, peoplePath, person.FieldNormalizedName, normalize.Name(rawName))
	if err != nil {
		return nil, false, fmt.Errorf("store.FindByField(people, normalizedName) > %w", err)
	}
	existed := len(existing) > 0

	if opts.DryRun {
		p := person.Person{
			DisplayName:    normalize.DisplayName(rawName),
			NormalizedName: normalize.Name(rawName),
			Memo:           memo,
		}
		if existed {
			p = person.FromDocument(existing[0])
		}
		return &p, existed, nil
	}

	p, err := strategy.UpsertPerson(ctx, resolve.PersonInput{RawName: rawName, Memo: memo})
	if err != nil {
		return nil, false, fmt.Errorf("strategy.UpsertPerson(%q) > %w", rawName, err)
	}
	return p, existed, nil
}

func (m *Migrator) migrateEntries(ctx context.Context, strategy resolve.Strategy, identifier string, p *person.Person, opts MigrateOptions, result *MigrateResult) error {
	entriesPath := resolve.LegacyEntriesPath(m.owner, identifier)
	entryDocs, err := m.store.FindAll(ctx, entriesPath)
	if err != nil {
		return fmt.Errorf("store.FindAll(%s) > %w", entriesPath, err)
	}
	if len(entryDocs) == 0 {
		return nil
	}

	encountersPath := resolve.CollectionPath(m.owner, encounter.Collection)
	existingDays := map[string]bool{}
	if p.ID != "" {
		existing, err := m.store.FindByField(ctx, encountersPath, encounter.FieldPersonID, p.ID)
		if err != nil {
			return fmt.Errorf("store.FindByField(encounters, personId) > %w", err)
		}
		for _, doc := range existing {
			existingDays[docstore.StringField(doc.Data, encounter.FieldDate)] = true
		}
	}

	for _, entryDoc := range entryDocs {
		day := entryDoc.ID
		input := legacyEntryInput(p.DisplayName, entryDoc.Data)

		if !opts.DryRun {
			if _, err := strategy.UpsertEncounterForDay(ctx, p, day, input); err != nil {
				return fmt.Errorf("strategy.UpsertEncounterForDay(%s, %s) > %w", identifier, day, err)
			}
		}
		if existingDays[day] {
			fmt.Fprintf(m.writer, "  [MERGE] encounter %s (%s)\n", day, p.DisplayName)
			result.EncountersMerged++
		} else {
			fmt.Fprintf(m.writer, "  [NEW]   encounter %s (%s)\n", day, p.DisplayName)
			result.EncountersNew++
		}
	}
	return nil
}

// legacyEntryInput converts one legacy per-day document into resolver input.
// Facts are re-compacted and re-stamped on write by the strategy.
func legacyEntryInput(personName string, data map[string]any) resolve.EncounterInput {
	input := resolve.EncounterInput{
		PersonName: personName,
		Place:      docstore.StringField(data, resolve.LegacyFieldPlace),
	}
	items, ok := data[resolve.LegacyFieldFacts].([]any)
	if !ok {
		return input
	}
	for _, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			continue
		}
		input.Facts = append(input.Facts, docstore.StringField(fields, encounter.FactFieldText))
	}
	return input
}

// Exporter dumps the structured layout as YAML, people with their
// encounters date-descending.
type Exporter struct {
	store docstore.Store
	owner string
}

// NewExporter creates a new Exporter.
func NewExporter(store docstore.Store, owner string) *Exporter {
	return &Exporter{store: store, owner: owner}
}

type exportEntry struct {
	Person     person.Person         `yaml:"person"`
	Encounters []encounter.Encounter `yaml:"encounters,omitempty"`
}

// Export writes every person and their encounters to w.
func (e *Exporter) Export(ctx context.Context, w io.Writer) error {
	peoplePath := resolve.CollectionPath(e.owner, person.Collection)
	peopleDocs, err := e.store.FindAll(ctx, peoplePath)
	if err != nil {
		return fmt.Errorf("store.FindAll(%s) > %w", peoplePath, err)
	}

	encountersPath := resolve.CollectionPath(e.owner, encounter.Collection)
	encounterDocs, err := e.store.FindByDateRange(ctx, encountersPath, encounter.FieldDate, "", "")
	if err != nil {
		return fmt.Errorf("store.FindByDateRange(%s) > %w", encountersPath, err)
	}
	byPerson := map[string][]encounter.Encounter{}
	for _, doc := range encounterDocs {
		enc := encounter.FromDocument(doc)
		byPerson[enc.PersonID] = append(byPerson[enc.PersonID], enc)
	}

	entries := make([]exportEntry, 0, len(peopleDocs))
	for _, doc := range peopleDocs {
		// Legacy documents are not part of the structured export.
		if docstore.StringField(doc.Data, person.FieldNormalizedName) == "" {
			continue
		}
		p := person.FromDocument(doc)
		entries = append(entries, exportEntry{Person: p, Encounters: byPerson[p.ID]})
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(entries); err != nil {
		return fmt.Errorf("yaml.Encoder.Encode(export) > %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("yaml.Encoder.Close() > %w", err)
	}
	return nil
}
