package riskdetect

import "fmt"

type template func(f Facts) string

func fixed(s string) template {
	return func(Facts) string { return s }
}

func withAmount(format, fallback string) template {
	return func(f Facts) string {
		if len(f.Amounts) > 0 {
			return fmt.Sprintf(format, f.Amounts[0])
		}
		return fallback
	}
}

func withDate(dated, fallback string) template {
	return func(f Facts) string {
		if len(f.Dates) > 0 {
			return dated
		}
		return fallback
	}
}

var templates = map[string]template{
	"rent_increases":        withAmount("Rent is %s; increases may apply annually.", "Rent amount specified with potential for increases."),
	"deposit":               withAmount("Deposit is %s, refundable subject to conditions.", "Deposit amount specified, refundable subject to conditions."),
	"fees":                  withAmount("Various fees apply, including %s.", "Various fees and charges may apply."),
	"utilities":             fixed("Utility responsibilities and billing arrangements specified."),
	"break_clause":          withAmount("Break clause available with %s notice.", "Break clause available with specified notice period."),
	"renewal_notice":        withDate("Fixed term specified; check notice requirements before renewal.", "Fixed term specified with renewal notice requirements."),
	"landlord_entry":        fixed("Landlord entry rights and notice requirements specified."),
	"repairs":               fixed("Repair and maintenance responsibilities clearly defined."),
	"pets_alterations":      fixed("Pet and alteration policies specified in the agreement."),
	"parking_rules":         fixed("Parking arrangements and rules clearly specified."),
	"insurance":             fixed("Insurance responsibilities and requirements specified."),
	"habitability_safety":   fixed("Habitability and safety standards outlined in the agreement."),
	"subletting":            fixed("Subletting and assignment rights clearly defined."),
	"disputes_jurisdiction": fixed("Dispute resolution and jurisdiction clearly specified."),

	"scope":               fixed("Scope of work and deliverables clearly defined."),
	"acceptance":          fixed("Acceptance criteria and approval process specified."),
	"change_control":      fixed("Change control and revision procedures outlined."),
	"timeline":            withDate("Timeline specified with key milestones and deadlines.", "Timeline and delivery schedule clearly defined."),
	"payment":             withAmount("Payment terms specified, including %s.", "Payment terms and invoicing procedures clearly defined."),
	"expenses":            fixed("Expense reimbursement policies and procedures specified."),
	"ip_ownership":        fixed("Intellectual property ownership and rights clearly defined."),
	"moral_rights":        fixed("Moral rights and attribution requirements specified."),
	"confidentiality":     fixed("Confidentiality obligations and restrictions clearly defined."),
	"non_solicit_compete": fixed("Non-solicitation and non-compete restrictions specified."),
	"termination":         fixed("Termination procedures and kill fee arrangements specified."),
	"liability_indemnity": fixed("Liability limitations and indemnification provisions outlined."),
	"warranties":          fixed("Warranties and guarantees clearly specified."),
	"contractor_status":   fixed("Independent contractor status and tax implications specified."),
	"governing_law":       fixed("Governing law and jurisdiction clearly specified."),

	"definition_confidential": fixed("Confidential information is defined in the agreement."),
	"exclusions":              fixed("Exclusions from confidentiality are listed."),
	"permitted_disclosures":   fixed("Permitted disclosures are described."),
	"use_restrictions":        fixed("Restrictions on using the information are specified."),
	"return_destruction":      fixed("Return or destruction of information is required on request or termination."),
	"duration":                withDate("Confidentiality obligations run for a stated period.", "Duration of confidentiality obligations is specified."),
	"mutual_one_way":          fixed("The agreement states which parties are bound."),
	"remedies":                fixed("Remedies for breach are set out."),

	"job_title_duties":       fixed("Job title and duties are described."),
	"working_hours":          fixed("Working hours and overtime arrangements are specified."),
	"place_of_work":          fixed("Place of work is specified."),
	"salary_bonuses":         withAmount("Salary is %s, with any bonus terms as stated.", "Salary and bonus arrangements are specified."),
	"benefits":               fixed("Benefits and leave entitlements are specified."),
	"start_probation":        withDate("Start date and probation period are specified.", "Probation arrangements are specified."),
	"notice_termination":     fixed("Notice periods and termination terms are specified."),
	"confidentiality_ip":     fixed("Confidentiality and intellectual property terms apply."),
	"non_compete_solicit":    fixed("Post-employment restrictions are specified."),
	"performance_reviews":    fixed("Performance review arrangements are described."),
	"disciplinary_grievance": fixed("Disciplinary and grievance procedures are referenced."),

	"scope_services":            fixed("Scope of services is defined."),
	"service_levels":            fixed("Service levels and availability commitments are specified."),
	"support_maintenance":       fixed("Support and maintenance terms are specified."),
	"fees_payment":              withAmount("Fees include %s, payable as stated.", "Fees and payment terms are specified."),
	"auto_renewal":              fixed("The agreement may renew automatically; check the notice window."),
	"data_protection":           fixed("Data protection obligations are specified."),
	"security_compliance":       fixed("Security and compliance commitments are specified."),
	"dr_bcp":                    fixed("Disaster recovery and continuity arrangements are described."),
	"audit_rights":              fixed("Audit rights are granted."),
	"liability_cap":             withAmount("Liability is capped at %s.", "Liability is limited by the agreement."),
	"indemnities":               fixed("Indemnities are given between the parties."),
	"subcontracting_assignment": fixed("Subcontracting and assignment terms are specified."),
	"term_termination":          fixed("Term and termination rights are specified."),

	"general_scope":           fixed("The subject and scope of the agreement are described."),
	"general_payment":         withAmount("Payment of %s is specified.", "Payment terms are specified."),
	"general_term_renewal":    withDate("The term runs to a stated date; check renewal terms.", "Term and renewal arrangements are specified."),
	"general_termination":     fixed("Termination rights and notice are specified."),
	"general_liability":       fixed("Liability and indemnity terms are specified."),
	"general_confidentiality": fixed("Confidentiality or data obligations apply."),
	"general_disputes":        fixed("Dispute resolution and governing law are specified."),
}
