package policy

// Sample returns a demonstration draft used when the client runs in sample
// mode, before any agent round trip has happened.
func Sample() Record {
	return Record{
		Title:               "Privacy Policy for Mobile Application - GDPR Compliance",
		Content:             sampleContent,
		RegulationFramework: "GDPR",
		ScopeType:           "Full Policy",
		KeySections: []string{
			"Introduction", "Data Controller", "Data Collection", "Legal Basis",
			"User Rights", "Data Retention", "International Transfers", "Contact Information",
		},
		ComplianceNotes: "This policy includes all GDPR-required disclosures including lawful basis for processing, " +
			"data subject rights, DPO contact details, and international transfer mechanisms. " +
			"Consider adding specific cookie policy details and third-party processor list as annexes.",
		RevisionSuggestions: "Consider adding: (1) Specific data retention periods per data category, " +
			"(2) Detailed cookie policy or reference to standalone cookie notice, " +
			"(3) List of third-party data processors, " +
			"(4) Automated decision-making disclosure if applicable, " +
			"(5) Children's data handling section if the app may be accessed by minors.",
	}
}

const sampleContent = `# Privacy Policy

**Effective Date:** January 1, 2025

## 1. Introduction

This Privacy Policy explains how we collect, use, disclose, and safeguard your personal data when you use our mobile application ("App"). We are committed to protecting your privacy in accordance with the General Data Protection Regulation (GDPR).

## 2. Data Controller

The data controller responsible for your personal data is:
- **Company Name:** Example Corp
- **Address:** 123 Privacy Lane, Berlin, Germany
- **DPO Contact:** dpo@example.com

## 3. Data We Collect

We collect the following categories of personal data:

### 3.1 Data You Provide
- Account registration information (name, email address)
- Profile information
- Communications and feedback

### 3.2 Automatically Collected Data
- Device identifiers
- Usage analytics
- IP address and approximate location

## 4. Legal Basis for Processing

We process your data under the following legal bases:
1. **Consent** - Where you have given explicit consent
2. **Contract** - Processing necessary for the performance of our contract with you
3. **Legitimate Interest** - For improving our services and security

## 5. Your Rights Under GDPR

You have the following rights:
- **Right to Access** - Request a copy of your personal data
- **Right to Rectification** - Correct inaccurate data
- **Right to Erasure** - Request deletion of your data
- **Right to Data Portability** - Receive your data in a structured format
- **Right to Object** - Object to processing based on legitimate interest
- **Right to Restrict Processing** - Limit how we use your data

## 6. Data Retention

We retain your personal data only for as long as necessary to fulfill the purposes outlined in this policy, unless a longer retention period is required by law.

## 7. International Transfers

If we transfer your data outside the EEA, we ensure appropriate safeguards are in place, including Standard Contractual Clauses.

## 8. Contact Us

For questions about this Privacy Policy, contact our Data Protection Officer at dpo@example.com.`
