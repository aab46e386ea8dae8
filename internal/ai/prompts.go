package ai

import "fmt"

const analysisSystemPrompt = `You are a medical-records analyst for a personal injury law firm.
Analyze the provided medical record and respond with a single JSON object containing exactly these keys:
"summary": a concise plain-English summary of the record (2-4 sentences);
"extractedData": an object which may contain any of: "patientInfo" (name, dateOfBirth, gender, address, insurance, incidentDate), "medicalInfo" (diagnoses as [{code, narrative}], procedures as [{code, description}], diagnosticTests as [{name, result, significance}], treatmentRecommendations as [string]), "painSymptomReports" (painScaleEntries as [{date, score, location}], functionalLimitations, subjectiveComplaints), "timeline" as [{date, type, facility, narrative, cost}] ordered by date, "providerInfo" (name, specialty, facility, contact), "billingFinancials" (serviceCharges as [{description, amount}], outstandingBalance, adjustments, duplicateCharges), "prognosisFutureCare", "complicationsNotes";
"keyFindings": an array of short strings highlighting the most legally significant facts.
Omit any field the record does not support. Never invent values.`

const lineItemSystemPrompt = `You are a medical billing analyst. Extract every distinct billed charge from the provided record.
Respond with a JSON object: {"bills": [{"provider": string, "amount": number or string, "serviceDate": "YYYY-MM-DD", "billDate": "YYYY-MM-DD", "description": string, "insurance": string, "status": string}]}.
Include a bill only when an actual charge amount appears in the text. Use an empty array when there are none.`

const letterSystemPrompt = `You are drafting a formal demand letter on behalf of a personal injury client.
Write a professional letter using the case facts provided as JSON. Plain text only, no markdown.`

const defaultChatSystemPrompt = `You are a legal case assistant for a personal injury law firm.
Answer questions about case management, medical records, and billing concisely and accurately.
Never provide definitive legal advice; recommend attorney review for legal determinations.`

func analysisMessages(text, fileName string) []chatMessage {
	return []chatMessage{
		{Role: "system", Content: analysisSystemPrompt},
		{Role: "user", Content: fmt.Sprintf("Document: %s\n\n%s", fileName, text)},
	}
}

func lineItemMessages(text, fileName string) []chatMessage {
	return []chatMessage{
		{Role: "system", Content: lineItemSystemPrompt},
		{Role: "user", Content: fmt.Sprintf("Document: %s\n\n%s", fileName, text)},
	}
}

func letterMessages(factsJSON string) []chatMessage {
	return []chatMessage{
		{Role: "system", Content: letterSystemPrompt},
		{Role: "user", Content: factsJSON},
	}
}
