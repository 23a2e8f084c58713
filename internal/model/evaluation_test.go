package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompanyEvaluation_MeanScore(t *testing.T) {
	t.Parallel()

	e := &CompanyEvaluation{
		Team:                 Criterion{Score: 4},
		Technology:           Criterion{Score: 3},
		Market:               Criterion{Score: 4},
		ValueProposition:     Criterion{Score: 3},
		CompetitiveAdvantage: Criterion{Score: 2},
		SocialImpact:         Criterion{Score: 3},
	}
	assert.InDelta(t, 3.2, e.MeanScore(), 1e-9)
	assert.Len(t, e.Criteria(), len(CriterionLabels))
}
