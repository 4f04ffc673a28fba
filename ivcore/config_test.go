package ivcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestValidateRejectsNilConfig(t *testing.T) {
	var cfg *Config
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsNonPositiveSaturationIterations(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RowBoundTightenerSaturationIterations = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsNegativeRoundingConstant(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ExplicitBasisBoundTighteningRoundingConst = -1
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsNonPositiveMinimalCoefficient(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinimalCoefficientForTightening = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsNonPositiveThresholds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ConstraintViolationThreshold = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.DeepSoiRejectionThreshold = 0
	assert.Error(t, cfg.Validate())
}

func TestCloneIsIndependent(t *testing.T) {
	cfg := DefaultConfig()
	clone := cfg.Clone()
	clone.MinimalCoefficientForTightening = 42
	assert.NotEqual(t, cfg.MinimalCoefficientForTightening, clone.MinimalCoefficientForTightening)
}

func TestExplicitBasisBoundTighteningTypeString(t *testing.T) {
	assert.Equal(t, "UseConstraintMatrix", UseConstraintMatrix.String())
	assert.Equal(t, "ComputeInvertedBasisMatrix", ComputeInvertedBasisMatrix.String())
	assert.Equal(t, "UseImplicitInvertedBasisMatrix", UseImplicitInvertedBasisMatrix.String())
}
