package safety

// Bundled high-risk symptom phrases, stage one of the classifier.
// Matching is lowercase substring; lists cover Devanagari Hindi, romanized
// Hindi and English. Reviewed with the clinical content team; additions go
// through the same review.
var highRiskPhrases = []string{
	// English
	"severe bleeding",
	"heavy bleeding",
	"bleeding heavily",
	"water broke",
	"waters broke",
	"severe abdominal pain",
	"severe stomach pain",
	"baby not moving",
	"baby stopped moving",
	"no fetal movement",
	"convulsion",
	"seizure",
	"fits during pregnancy",
	"blurred vision",
	"severe headache",
	"very high fever",
	"unconscious",
	"fainted",
	"chest pain",
	"difficulty breathing",
	"cannot breathe",

	// Hindi (Devanagari)
	"तेज़ रक्तस्राव",
	"भारी रक्तस्राव",
	"बहुत खून बह रहा",
	"खून बह रहा है",
	"पानी की थैली फट",
	"तेज़ पेट दर्द",
	"बहुत तेज दर्द",
	"बच्चा हिल नहीं रहा",
	"बच्चे की हलचल नहीं",
	"दौरा पड़ा",
	"झटके आ रहे",
	"धुंधला दिख रहा",
	"तेज़ सिरदर्द",
	"तेज़ बुखार",
	"बेहोश",
	"सीने में दर्द",
	"सांस लेने में तकलीफ",

	// Romanized Hindi
	"khoon beh raha",
	"bahut khoon",
	"tez pet dard",
	"bacha hil nahi raha",
	"daura pada",
	"behosh ho gayi",
	"saans nahi aa rahi",
}

// Lower-signal phrases; a hit triggers model scoring but not an automatic
// high-risk floor.
var watchPhrases = []string{
	"swelling",
	"swollen feet",
	"dizziness",
	"dizzy",
	"vomiting",
	"spotting",
	"fever",
	"headache",

	"सूजन",
	"चक्कर",
	"उल्टी",
	"बुखार",
	"सिरदर्द",
	"खून",

	"sujan",
	"chakkar",
	"ulti",
	"bukhar",
}
