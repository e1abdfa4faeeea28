package triage

import "strings"

// Flowchart is a named checklist of at most five clinically relevant
// symptoms for a chief complaint.
type Flowchart struct {
	Name     string
	Keywords []string
	Symptoms []string
}

// FallbackFlowchartName is used when no keyword matches the complaint.
const FallbackFlowchartName = "general_presentation"

// flowcharts is the static complaint table. Matching is first-hit keyword
// containment against the lowercased complaint, so more specific entries
// come before broader ones.
var flowcharts = []Flowchart{
	{Name: "cardiac_arrest", Keywords: []string{"cardiac arrest", "not breathing", "no pulse"}, Symptoms: []string{"unresponsiveness", "respiratory_distress", "hypotension"}},
	{Name: "chest_pain", Keywords: []string{"chest pain", "chest tightness", "heart attack", "angina"}, Symptoms: []string{"chest_pain", "radiating_pain", "respiratory_distress", "sweating", "tachycardia"}},
	{Name: "shortness_of_breath", Keywords: []string{"shortness of breath", "short of breath", "can't breathe", "difficulty breathing", "breathless", "dyspnea"}, Symptoms: []string{"respiratory_distress", "wheeze", "chest_pain", "fever", "tachycardia"}},
	{Name: "asthma", Keywords: []string{"asthma", "wheezing"}, Symptoms: []string{"wheeze", "respiratory_distress", "speech_difficulty", "tachycardia"}},
	{Name: "stroke", Keywords: []string{"stroke", "face drooping", "slurred speech", "one side weak"}, Symptoms: []string{"neuro_deficit", "speech_difficulty", "headache", "unresponsiveness"}},
	{Name: "unconscious_adult", Keywords: []string{"unconscious", "unresponsive", "collapsed", "fainted", "syncope"}, Symptoms: []string{"unresponsiveness", "respiratory_distress", "hypotension", "head_injury"}},
	{Name: "seizure", Keywords: []string{"seizure", "convulsion", "fitting"}, Symptoms: []string{"unresponsiveness", "neuro_deficit", "head_injury", "fever"}},
	{Name: "headache", Keywords: []string{"headache", "migraine", "head hurts"}, Symptoms: []string{"headache", "neuro_deficit", "fever", "visual_disturbance", "vomiting"}},
	{Name: "abdominal_pain", Keywords: []string{"abdominal pain", "stomach ache", "stomach pain", "belly pain", "tummy"}, Symptoms: []string{"abdominal_pain", "vomiting", "fever", "hypotension", "blood_in_stool"}},
	{Name: "gi_bleeding", Keywords: []string{"vomiting blood", "blood in stool", "black stool", "rectal bleeding"}, Symptoms: []string{"bleeding", "hypotension", "abdominal_pain", "tachycardia"}},
	{Name: "vomiting", Keywords: []string{"vomiting", "throwing up", "nausea"}, Symptoms: []string{"vomiting", "dehydration", "abdominal_pain", "fever"}},
	{Name: "diarrhoea", Keywords: []string{"diarrhoea", "diarrhea"}, Symptoms: []string{"dehydration", "abdominal_pain", "fever", "blood_in_stool"}},
	{Name: "major_trauma", Keywords: []string{"car accident", "road traffic", "fell from height", "major trauma", "run over"}, Symptoms: []string{"bleeding", "deformity", "unresponsiveness", "respiratory_distress", "hypotension"}},
	{Name: "head_injury", Keywords: []string{"head injury", "hit my head", "hit his head", "hit her head"}, Symptoms: []string{"head_injury", "unresponsiveness", "vomiting", "neuro_deficit"}},
	{Name: "limb_injuries", Keywords: []string{"broken", "fracture", "sprain", "twisted ankle", "injured arm", "injured leg", "limb injury"}, Symptoms: []string{"limb_pain", "deformity", "swelling", "bleeding"}},
	{Name: "back_pain", Keywords: []string{"back pain", "backache"}, Symptoms: []string{"back_pain", "neuro_deficit", "urinary_retention", "fever"}},
	{Name: "neck_pain", Keywords: []string{"neck pain", "stiff neck"}, Symptoms: []string{"neck_pain", "neuro_deficit", "fever", "headache"}},
	{Name: "burns", Keywords: []string{"burn", "scald"}, Symptoms: []string{"burn_area", "pain", "respiratory_distress", "blistering"}},
	{Name: "wounds", Keywords: []string{"laceration", "deep cut", "cut myself", "wound", "stabbed"}, Symptoms: []string{"bleeding", "pain", "deformity", "contamination"}},
	{Name: "severe_bleeding", Keywords: []string{"bleeding heavily", "severe bleeding", "won't stop bleeding"}, Symptoms: []string{"bleeding", "hypotension", "tachycardia", "pain"}},
	{Name: "allergic_reaction", Keywords: []string{"allergic", "anaphylaxis", "swollen lips", "swollen tongue"}, Symptoms: []string{"respiratory_distress", "swelling", "rash", "hypotension"}},
	{Name: "rash", Keywords: []string{"rash", "hives", "skin eruption"}, Symptoms: []string{"rash", "fever", "swelling", "itching"}},
	{Name: "fever_adult", Keywords: []string{"fever", "high temperature", "feverish"}, Symptoms: []string{"fever", "rash", "neck_pain", "respiratory_distress", "dehydration"}},
	{Name: "sepsis_concern", Keywords: []string{"sepsis", "septic"}, Symptoms: []string{"fever", "hypotension", "tachycardia", "unresponsiveness"}},
	{Name: "mental_illness", Keywords: []string{"suicidal", "self harm", "self-harm", "overdose intent", "hearing voices", "panic attack", "anxiety", "depressed"}, Symptoms: []string{"self_harm_risk", "agitation", "unresponsiveness", "confusion"}},
	{Name: "overdose_poisoning", Keywords: []string{"overdose", "poisoning", "swallowed", "ingested"}, Symptoms: []string{"unresponsiveness", "vomiting", "respiratory_distress", "agitation"}},
	{Name: "alcohol_intoxication", Keywords: []string{"drunk", "intoxicated", "alcohol"}, Symptoms: []string{"confusion", "vomiting", "unresponsiveness", "head_injury"}},
	{Name: "palpitations", Keywords: []string{"palpitations", "racing heart", "irregular heartbeat"}, Symptoms: []string{"tachycardia", "chest_pain", "respiratory_distress", "syncope"}},
	{Name: "hypertension", Keywords: []string{"blood pressure high", "high blood pressure"}, Symptoms: []string{"headache", "visual_disturbance", "chest_pain", "neuro_deficit"}},
	{Name: "diabetes_problem", Keywords: []string{"diabetic", "blood sugar", "hypoglycemia", "hyperglycemia"}, Symptoms: []string{"confusion", "dehydration", "unresponsiveness", "vomiting"}},
	{Name: "urinary_problems", Keywords: []string{"urinary", "burning urine", "can't pass urine", "urine infection"}, Symptoms: []string{"urinary_retention", "abdominal_pain", "fever", "blood_in_urine"}},
	{Name: "renal_colic", Keywords: []string{"kidney stone", "flank pain", "loin pain"}, Symptoms: []string{"flank_pain", "vomiting", "blood_in_urine", "fever"}},
	{Name: "testicular_pain", Keywords: []string{"testicular", "testicle pain", "groin pain"}, Symptoms: []string{"testicular_pain", "swelling", "vomiting", "abdominal_pain"}},
	{Name: "pregnancy_problem", Keywords: []string{"pregnant", "pregnancy", "contractions", "labour", "labor"}, Symptoms: []string{"abdominal_pain", "bleeding", "hypotension", "fetal_concern"}},
	{Name: "vaginal_bleeding", Keywords: []string{"vaginal bleeding", "heavy period"}, Symptoms: []string{"bleeding", "abdominal_pain", "hypotension", "dizziness"}},
	{Name: "eye_problem", Keywords: []string{"eye pain", "something in my eye", "vision loss", "red eye"}, Symptoms: []string{"eye_pain", "visual_disturbance", "foreign_body", "headache"}},
	{Name: "ear_problem", Keywords: []string{"earache", "ear pain", "ear discharge"}, Symptoms: []string{"ear_pain", "fever", "hearing_loss", "discharge"}},
	{Name: "sore_throat", Keywords: []string{"sore throat", "throat pain", "tonsil"}, Symptoms: []string{"throat_pain", "fever", "swallowing_difficulty", "respiratory_distress"}},
	{Name: "dental_problem", Keywords: []string{"toothache", "dental", "tooth"}, Symptoms: []string{"dental_pain", "swelling", "fever", "bleeding"}},
	{Name: "facial_problem", Keywords: []string{"facial pain", "face swelling", "jaw pain"}, Symptoms: []string{"facial_pain", "swelling", "fever", "neuro_deficit"}},
	{Name: "foreign_body", Keywords: []string{"swallowed object", "foreign body", "choking"}, Symptoms: []string{"respiratory_distress", "swallowing_difficulty", "pain", "vomiting"}},
	{Name: "bites_stings", Keywords: []string{"dog bite", "insect sting", "snake bite", "bitten"}, Symptoms: []string{"bleeding", "swelling", "rash", "respiratory_distress"}},
	{Name: "dizziness", Keywords: []string{"dizzy", "vertigo", "light-headed", "lightheaded"}, Symptoms: []string{"dizziness", "neuro_deficit", "vomiting", "tachycardia"}},
	{Name: "weakness_fatigue", Keywords: []string{"weakness", "fatigue", "tired all the time", "lethargic"}, Symptoms: []string{"fatigue", "neuro_deficit", "fever", "dehydration"}},
	{Name: "confusion_adult", Keywords: []string{"confused", "confusion", "disoriented", "delirious"}, Symptoms: []string{"confusion", "fever", "head_injury", "neuro_deficit"}},
	{Name: "crying_baby", Keywords: []string{"crying baby", "inconsolable", "baby won't stop"}, Symptoms: []string{"irritability", "fever", "vomiting", "dehydration"}},
	{Name: "fever_child", Keywords: []string{"child fever", "baby fever", "feverish child"}, Symptoms: []string{"fever", "rash", "irritability", "dehydration", "respiratory_distress"}},
	{Name: "limping_child", Keywords: []string{"limping", "child won't walk"}, Symptoms: []string{"limb_pain", "swelling", "fever", "deformity"}},
	{Name: "falls_elderly", Keywords: []string{"fall", "fell over", "found on floor"}, Symptoms: []string{"head_injury", "limb_pain", "deformity", "confusion"}},
	{Name: "cold_flu", Keywords: []string{"cold symptoms", "flu", "cough", "runny nose"}, Symptoms: []string{"fever", "respiratory_distress", "throat_pain", "fatigue"}},
	{Name: FallbackFlowchartName, Keywords: nil, Symptoms: []string{"pain", "fever", "respiratory_distress", "bleeding", "confusion"}},
}

// Selector maps a free-text complaint to a flowchart.
type Selector struct {
	charts []Flowchart
}

// NewSelector returns a selector over the static flowchart table.
func NewSelector() *Selector {
	return &Selector{charts: flowcharts}
}

// Select returns the first flowchart with a keyword contained in the
// lowercased complaint, falling back to general_presentation. An unmatched
// complaint is expected in-run behavior, never an error.
func (s *Selector) Select(complaint string) *Flowchart {
	lowered := strings.ToLower(complaint)
	for i := range s.charts {
		for _, kw := range s.charts[i].Keywords {
			if strings.Contains(lowered, kw) {
				return &s.charts[i]
			}
		}
	}
	return s.fallback()
}

func (s *Selector) fallback() *Flowchart {
	return &s.charts[len(s.charts)-1]
}

// Len returns the number of flowcharts in the table.
func (s *Selector) Len() int {
	return len(s.charts)
}
