// Package policy holds insurance policies and the coverage checker.
package policy

import (
	"time"

	"github.com/google/uuid"
)

// Policy defines what a plan covers. Code lists are ICD-10 diagnoses and CPT
// procedures; an empty covered list means no positive restriction applies.
type Policy struct {
	ID                 uuid.UUID `db:"id" json:"id"`
	PolicyID           string    `db:"policy_id" json:"policy_id"`
	PayorID            string    `db:"payor_id" json:"payor_id"`
	Name               string    `db:"name" json:"name"`
	PolicyType         string    `db:"policy_type" json:"policy_type"`
	CoveredDiagnoses   []string  `db:"covered_diagnoses" json:"covered_diagnoses"`
	ExcludedDiagnoses  []string  `db:"excluded_diagnoses" json:"excluded_diagnoses"`
	CoveredProcedures  []string  `db:"covered_procedures" json:"covered_procedures"`
	ExcludedProcedures []string  `db:"excluded_procedures" json:"excluded_procedures"`
	AnnualLimit        float64   `db:"annual_limit" json:"annual_limit"`
	PerIncidentLimit   float64   `db:"per_incident_limit" json:"per_incident_limit"`
	Deductible         float64   `db:"deductible" json:"deductible"`
	CopayPercentage    float64   `db:"copay_percentage" json:"copay_percentage"`
	IsActive           bool      `db:"is_active" json:"is_active"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

// CoverageResult is the outcome of a coverage check.
type CoverageResult struct {
	PolicyID string `json:"policy_id"`
	Covered  bool   `json:"covered"`
	Reason   string `json:"reason"`
}

// Limits summarizes the monetary limits of a policy.
type Limits struct {
	AnnualLimit      float64 `json:"annual_limit"`
	PerIncidentLimit float64 `json:"per_incident_limit"`
	Deductible       float64 `json:"deductible"`
	CopayPercentage  float64 `json:"copay_percentage"`
}
