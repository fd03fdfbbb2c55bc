// file: internals/features/school/students/model/student_fee_model_test.go
package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeeIdentityKeyNormalization(t *testing.T) {
	assert.Equal(t, FeeIdentityKey("1st", "2024/2025"), FeeIdentityKey("1ST", "2024/2025"))
	assert.Equal(t, FeeIdentityKey(" 1st ", "2024/2025"), FeeIdentityKey("1st", " 2024/2025 "))
	assert.NotEqual(t, FeeIdentityKey("1st", "2024/2025"), FeeIdentityKey("2nd", "2024/2025"))
	assert.NotEqual(t, FeeIdentityKey("1st", "2024/2025"), FeeIdentityKey("1st", "2025/2026"))
}

func TestIdentityKeyUsesModelFields(t *testing.T) {
	m := StudentFeeModel{StudentFeeTermName: "1st", StudentFeeSessionName: "2024/2025"}
	assert.Equal(t, "1st|2024/2025", m.IdentityKey())
}
