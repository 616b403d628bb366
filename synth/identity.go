package synth

import (
	"fmt"
	"time"

	"github.com/erraggy/typeschema/source"
	"github.com/erraggy/typeschema/tserrors"
)

// ClassIdentifier names the class to transform, with optional evidence for
// choosing between same-named declarations.
type ClassIdentifier struct {
	Name string
	// Hint is the preferred declaring location.
	Hint string
	// Sample holds observed property values of an instance.
	Sample map[string]any
	// Probe, when set, produces a sample instance. It runs sandboxed:
	// panics and errors are swallowed and contribute no evidence.
	Probe func() (map[string]any, error)
}

// resolve finds the declaration id names. It returns nil when none exists.
func (e *Engine) resolve(id ClassIdentifier, ctx *synthContext) source.Declaration {
	candidates := e.provider.FindDeclarations(id.Name, id.Hint)
	switch len(candidates) {
	case 0:
		return nil
	case 1:
		return candidates[0]
	}

	if id.Hint != "" {
		var hinted []source.Declaration
		for _, c := range candidates {
			if c.DeclID().Location == id.Hint {
				hinted = append(hinted, c)
			}
		}
		if len(hinted) == 1 {
			return hinted[0]
		}
		if len(hinted) > 1 {
			candidates = hinted
		}
	}

	evidence := mergeEvidence(id.Sample, runProbe(id.Probe, e.logger))
	best, bestScore, tied := 0, 0, false
	for i, c := range candidates {
		score := e.scoreCandidate(c, evidence)
		e.logger.Debug("scored candidate", "declaration", c.DeclID().String(), "score", score)
		switch {
		case i == 0 || score > bestScore:
			best, bestScore, tied = i, score, false
		case score == bestScore:
			tied = true
		}
	}
	if tied {
		names := make([]string, len(candidates))
		for i, c := range candidates {
			names[i] = c.DeclID().String()
		}
		chosen := candidates[best].DeclID().String()
		e.warn(ctx, Warning{
			Code:    WarnAmbiguous,
			Name:    id.Name,
			Message: fmt.Sprintf("%d declarations match equally, using %s", len(candidates), chosen),
			Err:     &tserrors.AmbiguityError{Name: id.Name, Candidates: names, Chosen: chosen},
		})
	}
	return candidates[best]
}

// scoreCandidate awards +2 per evidence key the candidate declares, +1 more
// when the value's kind fits the declared type, and -1 per undeclared key.
func (e *Engine) scoreCandidate(decl source.Declaration, evidence map[string]any) int {
	class, ok := decl.(*source.ClassDescriptor)
	if !ok || len(evidence) == 0 {
		return 0
	}
	props := make(map[string]extractedProperty)
	for _, p := range e.extractProperties(class, nil, newSynthContext()) {
		props[p.prop.Name] = p
	}
	score := 0
	for key, value := range evidence {
		p, ok := props[key]
		if !ok {
			score--
			continue
		}
		score += 2
		if valueFits(value, e.classify(withDefaultHint(p.prop.Type, class.ID.Location), p.env)) {
			score++
		}
	}
	return score
}

// valueFits reports whether an observed value is compatible with td.
func valueFits(v any, td TypeDescriptor) bool {
	if v == nil {
		return false
	}
	if _, numeric := toFloat(v); numeric {
		switch td.Kind {
		case TypePrimitive:
			return td.Primitive == PrimitiveNumber || td.Primitive == PrimitiveInteger
		case TypeEnum:
			return true
		}
		return false
	}
	switch v.(type) {
	case string:
		return td.Kind == TypeEnum || (td.Kind == TypePrimitive &&
			(td.Primitive == PrimitiveString || td.Primitive == PrimitiveDate))
	case bool:
		return td.Kind == TypePrimitive && td.Primitive == PrimitiveBoolean
	case time.Time:
		return td.Kind == TypePrimitive && td.Primitive == PrimitiveDate
	case []byte:
		return td.Kind == TypePrimitive && td.Primitive == PrimitiveBinary
	case []any:
		return td.Kind == TypeArray
	case map[string]any:
		return td.Kind == TypeClass || td.Kind == TypeUtility || td.Kind == TypeOpaque || td.Kind == TypeParameter
	}
	return false
}

// runProbe calls probe, treating panics and errors as no evidence.
func runProbe(probe func() (map[string]any, error), logger Logger) (sample map[string]any) {
	if probe == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("probe panicked", "panic", fmt.Sprint(r))
			sample = nil
		}
	}()
	var err error
	sample, err = probe()
	if err != nil {
		logger.Debug("probe failed", "error", err)
		return nil
	}
	return sample
}

func mergeEvidence(sample, probed map[string]any) map[string]any {
	if len(probed) == 0 {
		return sample
	}
	merged := make(map[string]any, len(sample)+len(probed))
	for k, v := range probed {
		merged[k] = v
	}
	for k, v := range sample {
		merged[k] = v
	}
	return merged
}
