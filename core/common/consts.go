package common

import (
	"context"

	"github.com/gogf/gf/v2/frame/g"

	"github.com/janani-health/janani/pkg/schema"
)

// Disclaimer text, appended to every response unconditionally.
var disclaimers = map[schema.Language]string{
	schema.LanguageEnglish: "Disclaimer: This information is for general guidance only and is not a substitute for medical advice. Please consult a doctor, ANM or ASHA worker before acting on it.",
	schema.LanguageHindi:   "अस्वीकरण: यह जानकारी केवल सामान्य मार्गदर्शन के लिए है और चिकित्सकीय सलाह का विकल्प नहीं है। कृपया किसी भी निर्णय से पहले डॉक्टर, एएनएम या आशा कार्यकर्ता से परामर्श करें।",
}

// Canned answer returned when retrieval produced nothing usable.
// Skipping the model entirely here is the no-hallucination guard.
var cannedNoInformation = map[schema.Language]string{
	schema.LanguageEnglish: "I could not find verified information for this question. Please consult your doctor, ANM or nearest health centre.",
	schema.LanguageHindi:   "इस प्रश्न के लिए सत्यापित जानकारी नहीं मिल सकी। कृपया अपने डॉक्टर, एएनएम या नज़दीकी स्वास्थ्य केंद्र से संपर्क करें।",
}

var highAlertMessages = map[schema.Language]string{
	schema.LanguageEnglish: "Your message mentions symptoms that may need urgent medical attention. Please call emergency services or go to the nearest health facility immediately.",
	schema.LanguageHindi:   "आपके संदेश में ऐसे लक्षण हैं जिन्हें तुरंत चिकित्सा ध्यान की आवश्यकता हो सकती है। कृपया तुरंत आपातकालीन सेवा को कॉल करें या नज़दीकी स्वास्थ्य केंद्र जाएँ।",
}

var mediumAlertMessages = map[schema.Language]string{
	schema.LanguageEnglish: "Some of what you described may need a check-up. Please consult a doctor or health worker soon.",
	schema.LanguageHindi:   "आपने जो बताया उसमें से कुछ लक्षणों की जांच ज़रूरी हो सकती है। कृपया जल्द ही डॉक्टर या स्वास्थ्य कार्यकर्ता से मिलें।",
}

// GetDisclaimer returns the disclaimer in the given language, falling back to
// English for any unroutable value.
func GetDisclaimer(language schema.Language) string {
	if s, ok := disclaimers[language]; ok {
		return s
	}
	return disclaimers[schema.LanguageEnglish]
}

// GetCannedNoInformation returns the "no verified information" answer.
func GetCannedNoInformation(language schema.Language) string {
	if s, ok := cannedNoInformation[language]; ok {
		return s
	}
	return cannedNoInformation[schema.LanguageEnglish]
}

// GetAlertMessage returns the escalation message for a severity level.
func GetAlertMessage(language schema.Language, severity schema.Severity) string {
	m := mediumAlertMessages
	if severity == schema.SeverityHigh {
		m = highAlertMessages
	}
	if s, ok := m[language]; ok {
		return s
	}
	return m[schema.LanguageEnglish]
}

// GetEmergencyContacts returns the configured emergency numbers.
// Defaults are the national ambulance and health helpline numbers.
func GetEmergencyContacts(ctx context.Context) []string {
	contacts := g.Cfg().MustGet(ctx, "safety.emergencyContacts", []string{"108", "102"}).Strings()
	if len(contacts) == 0 {
		contacts = []string{"108", "102"}
	}
	return contacts
}
