package dictionary

// Builtin returns the default English term set. Weights favor findings
// over anatomy: a disease name says more about clinical importance than
// a mention of an organ.
func Builtin() []Term {
	var terms []Term
	add := func(category string, weight float64, surfaces ...string) {
		for _, s := range surfaces {
			terms = append(terms, Term{Surface: s, Weight: weight, Category: category})
		}
	}

	add("anatomy", 1.0,
		"heart", "lungs", "liver", "kidneys", "spleen",
		"stomach", "intestine", "pancreas", "gallbladder",
		"brain", "spinal cord", "nerves", "arteries", "veins")

	add("symptoms", 1.2,
		"pain", "fever", "cough", "dyspnea", "nausea",
		"vomiting", "diarrhea", "constipation", "headache",
		"dizziness", "weakness", "fatigue", "weight loss")

	add("diseases", 1.5,
		"hypertension", "hypotension", "myocardial infarction",
		"angina", "arrhythmia", "heart failure", "stroke",
		"asthma", "bronchitis", "pneumonia", "copd",
		"diabetes", "hyperthyroidism", "hypothyroidism")

	add("diagnostics", 1.3,
		"blood test", "urinalysis", "ecg", "echocardiography",
		"x-ray", "ultrasound", "ct scan", "mri", "endoscopy",
		"biopsy")

	add("medications", 1.4,
		"antibiotics", "analgesics", "diuretics", "beta-blockers",
		"anticoagulants", "statins", "insulin", "antihistamines",
		"bronchodilators", "corticosteroids")

	add("lab_values", 1.3,
		"hemoglobin", "leukocytes", "platelets", "glucose",
		"creatinine", "urea", "bilirubin", "cholesterol",
		"triglycerides", "potassium", "sodium", "calcium")

	add("vitals", 1.5,
		"blood pressure", "bp", "heart rate", "hr",
		"respiratory rate", "rr", "temperature", "spo2",
		"pulse", "saturation")

	add("procedures", 1.3,
		"surgery", "anesthesia", "intubation", "catheterization",
		"transfusion", "dialysis", "chemotherapy", "radiotherapy")

	add("terminology", 1.2,
		"diagnosis", "treatment", "patient", "symptoms",
		"prognosis", "anamnesis", "chronic", "acute")

	return terms
}
