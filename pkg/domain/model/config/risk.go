package config

import "github.com/secmon-lab/riskatlas/pkg/domain/model"

// Category represents a risk category that assessments may use
type Category struct {
	ID          string
	Name        string
	Description string
}

// ReportScope selects the department shown by default in the CISO report
type ReportScope struct {
	Division string
	Team     string
}

// RiskConfig holds all risk-related configuration
type RiskConfig struct {
	Categories          []Category
	DataClassifications []string
	// StandardCategories are the categories of the standard risk catalog.
	// Assessments in any other category count as custom risks.
	StandardCategories []string
	StandardRisks      []model.StandardRisk
	ReportScope        ReportScope
}

// HasCategory reports whether name matches a configured category. An empty
// category list accepts every name.
func (c *RiskConfig) HasCategory(name string) bool {
	if len(c.Categories) == 0 {
		return true
	}
	for _, cat := range c.Categories {
		if cat.Name == name {
			return true
		}
	}
	return false
}

// HasDataClassification reports whether name is a configured classification.
// An empty list accepts every name.
func (c *RiskConfig) HasDataClassification(name string) bool {
	if len(c.DataClassifications) == 0 {
		return true
	}
	for _, dc := range c.DataClassifications {
		if dc == name {
			return true
		}
	}
	return false
}

// DefaultStandardCategories are used when the configuration omits them
func DefaultStandardCategories() []string {
	return []string{"Error", "Failure", "Malicious"}
}

// DefaultStandardRisks is the built-in standard risk catalog
func DefaultStandardRisks() []model.StandardRisk {
	return []model.StandardRisk{
		{
			Name:              "Administrator unintentionally introduces significant bug into production software",
			Category:          "Error",
			Description:       "Production bug introduced by administrative error",
			LossEventCategory: "Execution, Delivery & Process Management",
		},
		{
			Name:              "Vulnerable component gets deployed to production environment",
			Category:          "Error",
			Description:       "Security vulnerability introduced in production",
			LossEventCategory: "Execution, Delivery & Process Management",
		},
		{
			Name:              "Unauthorized internal access to confidential information",
			Category:          "Error",
			Description:       "Internal unauthorized access to sensitive data",
			LossEventCategory: "Internal Fraud",
		},
		{
			Name:              "Unauthorized external or partner access to confidential information",
			Category:          "Error",
			Description:       "External unauthorized access to sensitive data",
			LossEventCategory: "External Fraud",
		},
		{
			Name:              "Third party dependency disrupts core component",
			Category:          "Failure",
			Description:       "Critical dependency failure affecting core functionality",
			LossEventCategory: "Business Disruption and System Failures",
		},
		{
			Name:              "Unable to provide data to other internal products",
			Category:          "Failure",
			Description:       "Data provision failure to internal systems",
			LossEventCategory: "Business Disruption and System Failures",
		},
		{
			Name:              "Unable to get data from other internal products",
			Category:          "Failure",
			Description:       "Data retrieval failure from internal systems",
			LossEventCategory: "Business Disruption and System Failures",
		},
		{
			Name:              "Insufficient Monitoring and Alerting",
			Category:          "Failure",
			Description:       "Inadequate system monitoring and alert mechanisms",
			LossEventCategory: "Business Disruption and System Failures",
		},
		{
			Name:              "Resource exhaustion (CPU, memory, storage)",
			Category:          "Failure",
			Description:       "System resource depletion",
			LossEventCategory: "Business Disruption and System Failures",
		},
		{
			Name:              "Malfunction causes violation of compliance frameworks like GDPR, NIS2, PCI-DSS",
			Category:          "Failure",
			Description:       "Compliance violation due to system malfunction",
			LossEventCategory: "Clients, Products & Business Practices",
		},
		{
			Name:              "An attacker exposes PI data",
			Category:          "Malicious",
			Description:       "Malicious exposure of personal information",
			LossEventCategory: "External Fraud",
		},
		{
			Name:              "Data is intentionally compromised by insider",
			Category:          "Malicious",
			Description:       "Intentional internal data compromise",
			LossEventCategory: "Internal Fraud",
		},
	}
}
