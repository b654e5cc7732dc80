// Package features derives structured, bounded signals from a free-text case
// record. Extraction is deterministic for a fixed clock and never fails: a
// group that cannot be computed falls back to its documented defaults.
package features

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"casevalue-backend/models"

	"github.com/sirupsen/logrus"
)

const (
	unknown = "unknown"
	neutral = 0.5
)

// Extractor turns case records into ExtractedFeatures. It holds only
// read-only tables and is safe for concurrent use.
type Extractor struct {
	tables  Tables
	now     func() time.Time
	log     *logrus.Entry
	stateRe *regexp.Regexp
}

// Option is a functional option for Extractor
type Option func(*Extractor)

// WithTables replaces the reference tables.
func WithTables(t Tables) Option {
	return func(e *Extractor) {
		e.tables = t
	}
}

// WithClock sets the clock used for filing-age features.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) {
		e.now = now
	}
}

// WithLogger sets the logger used to report recovered groups.
func WithLogger(log *logrus.Entry) Option {
	return func(e *Extractor) {
		e.log = log
	}
}

// NewExtractor creates an extractor with DefaultTables and the wall clock.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		tables: DefaultTables(),
		now:    time.Now,
		log:    logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.stateRe = compileStatePattern(e.tables.States)
	return e
}

// Tables returns the tables the extractor was built with.
func (e *Extractor) Tables() Tables {
	return e.tables
}

func compileStatePattern(states []string) *regexp.Regexp {
	if len(states) == 0 {
		return nil
	}
	quoted := make([]string, len(states))
	for i, s := range states {
		quoted[i] = regexp.QuoteMeta(s)
	}
	return regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`)
}

// caseText caches the lowercased text fields scanned by the extractors.
type caseText struct {
	record        models.CaseRecord
	facts         string
	injuryDetails string
	claimType     string
	court         string
}

func newCaseText(c models.CaseRecord) caseText {
	return caseText{
		record:        c,
		facts:         strings.ToLower(c.Facts),
		injuryDetails: strings.ToLower(c.InjuryDetails),
		claimType:     strings.ToLower(c.ClaimType),
		court:         strings.ToLower(c.Court),
	}
}

// Extract computes every feature group for c.
func (e *Extractor) Extract(c models.CaseRecord) models.ExtractedFeatures {
	in := newCaseText(c)
	var f models.ExtractedFeatures

	cc := &f.CaseCharacteristics
	cc.Jurisdiction = guard(e, "jurisdiction", defaultJurisdiction(), func() models.JurisdictionFeatures {
		return e.jurisdiction(in)
	})
	cc.CaseType = guard(e, "case_type", defaultCaseType(), func() models.CaseTypeFeatures {
		return e.caseType(in)
	})
	primary := cc.CaseType.PrimaryType
	cc.Temporal = guard(e, "temporal", defaultTemporal(), func() models.TemporalFeatures {
		return e.temporal(in, primary)
	})
	cc.Damages = guard(e, "damages", defaultDamages(c.Damages), func() models.DamageFeatures {
		return e.damages(in, primary)
	})

	ps := &f.PartySpecific
	ps.Plaintiff = guard(e, "plaintiff", defaultPlaintiff(), func() models.PlaintiffFeatures {
		return e.plaintiff(in)
	})
	ps.Defendant = guard(e, "defendant", defaultDefendant(), func() models.DefendantFeatures {
		return e.defendant(in)
	})
	ps.Attorney = guard(e, "attorney", defaultAttorney(), func() models.AttorneyFeatures {
		return e.attorney(in)
	})
	ps.Relationship = guard(e, "relationship", defaultRelationship(), func() models.RelationshipFeatures {
		return e.relationship(in, ps.Defendant.Type)
	})

	eb := &f.EvidenceBased
	eb.EvidenceStrength = guard(e, "evidence_strength", defaultEvidenceStrength(), func() models.EvidenceStrength {
		return e.evidenceStrength(in)
	})
	eb.ExpertOpinion = guard(e, "expert_opinion", models.ExpertOpinion{}, func() models.ExpertOpinion {
		return e.expertOpinion(in)
	})
	eb.DocumentaryEvidence = guard(e, "documentary_evidence", defaultDocumentary(), func() models.DocumentaryEvidence {
		return e.documentary(in)
	})
	eb.Witness = guard(e, "witness", defaultWitness(), func() models.WitnessFeatures {
		return e.witness(in)
	})

	pr := &f.ProceduralStrategic
	pr.ProceduralPosture = guard(e, "procedural_posture", defaultPosture(), func() models.ProceduralPosture {
		return e.posture(in)
	})
	pr.MotionPractice = guard(e, "motion_practice", models.MotionPractice{}, func() models.MotionPractice {
		return e.motionPractice(in, eb.EvidenceStrength.OverallStrength)
	})
	pr.SettlementHistory = guard(e, "settlement_history", models.SettlementHistory{}, func() models.SettlementHistory {
		return e.settlementHistory(in)
	})
	pr.ADR = guard(e, "adr", defaultADR(), func() models.ADRFeatures {
		return e.adr(in, primary, ps.Relationship.OngoingRelationship)
	})

	f.Composite = guard(e, "composite", defaultComposite(), func() models.Composite {
		return composite(f)
	})

	return f
}

// guard runs fn and returns fallback if it panics.
func guard[T any](e *Extractor, group string, fallback T, fn func() T) (out T) {
	defer func() {
		if r := recover(); r != nil {
			e.log.WithFields(logrus.Fields{
				"group": group,
				"panic": fmt.Sprint(r),
			}).Warn("Feature extraction failed, using defaults")
			out = fallback
		}
	}()
	return fn()
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func containsAll(text string, keywords []string) bool {
	for _, k := range keywords {
		if !strings.Contains(text, k) {
			return false
		}
	}
	return len(keywords) > 0
}

func countAny(text string, keywords []string) int {
	n := 0
	for _, k := range keywords {
		if strings.Contains(text, k) {
			n++
		}
	}
	return n
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

func saturate(n int, at float64) float64 {
	if at <= 0 {
		return 0
	}
	return math.Min(1, float64(n)/at)
}

func firstLabel(text string, rules []KeywordRule, fallback string) string {
	for _, r := range rules {
		if r.Matches(text) {
			return r.Label
		}
	}
	return fallback
}
