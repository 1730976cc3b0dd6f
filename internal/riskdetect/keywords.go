package riskdetect

// riskKeywords supplements the taxonomy evidence hints with terms that tend
// to appear near each risk in real contracts.
var riskKeywords = map[string][]string{
	// Residential Lease
	"rent_increases":        {"rent", "monthly", "per month", "£", "increase", "cpi", "annual", "yearly", "review"},
	"deposit":               {"deposit", "bond", "security", "refundable", "deduction", "damage"},
	"fees":                  {"fee", "charge", "penalty", "late", "admin", "processing"},
	"utilities":             {"utility", "bill", "electric", "gas", "water", "council tax", "broadband"},
	"break_clause":          {"break", "terminate", "early", "notice", "month"},
	"renewal_notice":        {"renewal", "renew", "notice", "period", "fixed term"},
	"landlord_entry":        {"entry", "access", "inspect", "landlord", "reasonable"},
	"repairs":               {"repair", "maintenance", "fix", "damage", "wear", "tenant", "landlord"},
	"pets_alterations":      {"pet", "animal", "alteration", "modify", "decorate", "paint"},
	"parking_rules":         {"parking", "car", "vehicle", "space", "permit"},
	"insurance":             {"insurance", "cover", "policy", "liability", "contents"},
	"habitability_safety":   {"habitable", "safety", "health", "standard", "condition"},
	"subletting":            {"sublet", "assign", "transfer", "lodger", "guest"},
	"disputes_jurisdiction": {"dispute", "court", "jurisdiction", "law", "governing"},

	// Freelance / Services
	"scope":               {"scope", "deliverable", "work", "service", "project", "task"},
	"acceptance":          {"accept", "approve", "satisfactory", "complete", "deliver"},
	"change_control":      {"change", "modify", "revision", "amendment", "variation"},
	"timeline":            {"timeline", "deadline", "milestone", "schedule", "delivery"},
	"payment":             {"payment", "invoice", "fee", "rate", "hourly", "project"},
	"expenses":            {"expense", "cost", "reimburse", "travel", "materials"},
	"ip_ownership":        {"intellectual property", "ip", "copyright", "ownership", "rights"},
	"moral_rights":        {"moral right", "attribution", "credit", "author", "creator"},
	"confidentiality":     {"confidential", "secret", "proprietary", "non-disclosure"},
	"non_solicit_compete": {"non-solicit", "non-compete", "restrict", "compete"},
	"termination":         {"terminate", "end", "kill fee", "cancellation"},
	"liability_indemnity": {"liability", "indemnify", "damage", "loss", "claim"},
	"warranties":          {"warranty", "guarantee", "warrant", "represent"},
	"contractor_status":   {"contractor", "independent", "self-employed", "tax"},
	"governing_law":       {"governing law", "jurisdiction", "court", "venue"},

	// NDA
	"definition_confidential": {"confidential information", "proprietary", "secret", "trade secret"},
	"exclusions":              {"exclusion", "public", "prior", "independent", "known"},
	"permitted_disclosures":   {"permitted", "disclosure", "authorised", "required"},
	"use_restrictions":        {"use", "restriction", "purpose", "limited"},
	"return_destruction":      {"return", "destroy", "delete", "dispose"},
	"duration":                {"duration", "period", "year", "month", "term"},
	"mutual_one_way":          {"mutual", "one-way", "unilateral", "reciprocal"},
	"remedies":                {"remedy", "injunction", "damage", "relief", "enforcement"},

	// Employment Contract
	"job_title_duties":       {"job title", "role", "duty", "responsibility", "position"},
	"working_hours":          {"working hour", "overtime", "time", "schedule", "shift"},
	"place_of_work":          {"place of work", "location", "office", "remote", "home"},
	"salary_bonuses":         {"salary", "wage", "bonus", "compensation", "pay"},
	"benefits":               {"benefit", "pension", "holiday", "leave", "sick"},
	"start_probation":        {"start date", "probation", "trial", "period"},
	"notice_termination":     {"notice", "termination", "resign", "dismiss"},
	"confidentiality_ip":     {"confidential", "intellectual property", "ip", "proprietary"},
	"non_compete_solicit":    {"non-compete", "non-solicit", "restrict", "compete"},
	"performance_reviews":    {"performance", "review", "appraisal", "evaluation"},
	"disciplinary_grievance": {"disciplinary", "grievance", "procedure", "complaint"},

	// Business Services
	"scope_services":            {"scope", "service", "sow", "statement of work", "deliverable"},
	"service_levels":            {"service level", "sla", "uptime", "availability", "performance"},
	"support_maintenance":       {"support", "maintenance", "help", "assistance"},
	"fees_payment":              {"fee", "payment", "charge", "cost", "price"},
	"auto_renewal":              {"auto-renewal", "automatic", "renew", "extension"},
	"data_protection":           {"data protection", "gdpr", "privacy", "personal data"},
	"security_compliance":       {"security", "compliance", "standard", "certification"},
	"dr_bcp":                    {"disaster recovery", "business continuity", "backup", "recovery"},
	"audit_rights":              {"audit", "inspection", "verification", "review"},
	"liability_cap":             {"liability cap", "limit", "maximum", "exclusion"},
	"indemnities":               {"indemnify", "indemnity", "hold harmless", "defend"},
	"subcontracting_assignment": {"subcontract", "assign", "transfer", "delegate"},
	"term_termination":          {"term", "termination", "duration", "period"},

	// Other
	"general_scope":           {"purpose", "scope", "goods", "services", "supply"},
	"general_payment":         {"payment", "price", "fee", "invoice", "charge"},
	"general_term_renewal":    {"term", "renewal", "renew", "expiry", "period"},
	"general_termination":     {"terminate", "termination", "notice", "cancel"},
	"general_liability":       {"liability", "indemnify", "damage", "loss", "claim"},
	"general_confidentiality": {"confidential", "personal data", "privacy", "proprietary"},
	"general_disputes":        {"dispute", "court", "jurisdiction", "governing law", "arbitration"},
}
