package ai

// ExtractedData is the structured output of document analysis. The model
// controls the shape, so every branch is optional; absence is not an error.
type ExtractedData struct {
	PatientInfo         *PatientInfo        `json:"patientInfo,omitempty"`
	MedicalInfo         *MedicalInfo        `json:"medicalInfo,omitempty"`
	PainSymptomReports  *PainSymptomReports `json:"painSymptomReports,omitempty"`
	Timeline            []TimelineEvent     `json:"timeline,omitempty"`
	ProviderInfo        *ProviderInfo       `json:"providerInfo,omitempty"`
	BillingFinancials   *BillingFinancials  `json:"billingFinancials,omitempty"`
	PrognosisFutureCare string              `json:"prognosisFutureCare,omitempty"`
	ComplicationsNotes  string              `json:"complicationsNotes,omitempty"`
	KeyFindings         []string            `json:"keyFindings,omitempty"`
}

// PatientInfo identifies the patient described in a medical record.
type PatientInfo struct {
	Name         string `json:"name,omitempty"`
	DateOfBirth  string `json:"dateOfBirth,omitempty"`
	Gender       string `json:"gender,omitempty"`
	Address      string `json:"address,omitempty"`
	Insurance    string `json:"insurance,omitempty"`
	IncidentDate string `json:"incidentDate,omitempty"`
}

// MedicalInfo collects clinical findings.
type MedicalInfo struct {
	Diagnoses                []Diagnosis      `json:"diagnoses,omitempty"`
	Procedures               []Procedure      `json:"procedures,omitempty"`
	DiagnosticTests          []DiagnosticTest `json:"diagnosticTests,omitempty"`
	TreatmentRecommendations []string         `json:"treatmentRecommendations,omitempty"`
}

// Diagnosis pairs a diagnosis code with its narrative.
type Diagnosis struct {
	Code      string `json:"code,omitempty"`
	Narrative string `json:"narrative,omitempty"`
}

// Procedure pairs a procedure code with its description.
type Procedure struct {
	Code        string `json:"code,omitempty"`
	Description string `json:"description,omitempty"`
}

// DiagnosticTest records a test, its result, and why it matters.
type DiagnosticTest struct {
	Name         string `json:"name,omitempty"`
	Result       string `json:"result,omitempty"`
	Significance string `json:"significance,omitempty"`
}

// PainSymptomReports captures subjective symptom reporting.
type PainSymptomReports struct {
	PainScaleEntries      []PainScaleEntry `json:"painScaleEntries,omitempty"`
	FunctionalLimitations []string         `json:"functionalLimitations,omitempty"`
	SubjectiveComplaints  []string         `json:"subjectiveComplaints,omitempty"`
}

// PainScaleEntry records a reported pain level.
type PainScaleEntry struct {
	Date     string `json:"date,omitempty"`
	Score    string `json:"score,omitempty"`
	Location string `json:"location,omitempty"`
}

// TimelineEvent is one entry in the treatment timeline, ordered by date.
type TimelineEvent struct {
	Date      string `json:"date,omitempty"`
	Type      string `json:"type,omitempty"`
	Facility  string `json:"facility,omitempty"`
	Narrative string `json:"narrative,omitempty"`
	Cost      string `json:"cost,omitempty"`
}

// ProviderInfo identifies the treating provider.
type ProviderInfo struct {
	Name      string `json:"name,omitempty"`
	Specialty string `json:"specialty,omitempty"`
	Facility  string `json:"facility,omitempty"`
	Contact   string `json:"contact,omitempty"`
}

// BillingFinancials collects billed amounts and anomalies.
type BillingFinancials struct {
	ServiceCharges     []ServiceCharge `json:"serviceCharges,omitempty"`
	OutstandingBalance string          `json:"outstandingBalance,omitempty"`
	Adjustments        string          `json:"adjustments,omitempty"`
	DuplicateCharges   []string        `json:"duplicateCharges,omitempty"`
}

// ServiceCharge is one billed service line.
type ServiceCharge struct {
	Description string `json:"description,omitempty"`
	Amount      string `json:"amount,omitempty"`
}

// Quality values reported on an AnalysisResult.
const (
	QualityFull     = "full"
	QualityDegraded = "degraded"
)

// AnalysisResult is the contract output of AnalyzeDocument. Callers always
// receive all three fields populated (possibly with safe defaults).
type AnalysisResult struct {
	Summary       string        `json:"summary"`
	ExtractedData ExtractedData `json:"extractedData"`
	KeyFindings   []string      `json:"keyFindings"`
	Quality       string        `json:"-"`
}

// BillCandidate is an unvalidated bill line item proposed by the model.
// Amount is left loosely typed because models emit both numbers and strings.
type BillCandidate struct {
	Provider    string `json:"provider"`
	Amount      any    `json:"amount"`
	ServiceDate string `json:"serviceDate"`
	BillDate    string `json:"billDate"`
	Description string `json:"description"`
	Insurance   string `json:"insurance"`
	Status      string `json:"status"`
}

// ChatMessage is one turn of a chat history.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LetterFacts carries the case facts a demand letter is generated from.
type LetterFacts struct {
	ClientName   string `json:"clientName"`
	IncidentDate string `json:"incidentDate"`
	Injuries     string `json:"injuries"`
	Treatment    string `json:"treatment"`
	TotalBilled  string `json:"totalBilled"`
	Recipient    string `json:"recipient"`
}
