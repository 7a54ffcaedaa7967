package types

// Question is one interview question generated for a candidate. Questions are
// created in bulk during question generation and immutable afterward; ids are
// q1..qN in generation order.
type Question struct {
	ID             string `json:"id"`
	Text           string `json:"text"`
	IdealAnswer    string `json:"ideal_answer"`
	AudioReference string `json:"audio_reference,omitempty"`
}

// Answer holds the outcome of one answer submission. Audio bytes live in the
// object store; the session keeps only the references and the transcript.
// At most one Answer exists per question id — resubmission overwrites.
type Answer struct {
	QuestionID         string `json:"question_id"`
	RawAudioRef        string `json:"raw_audio_ref"`
	NormalizedAudioRef string `json:"normalized_audio_ref"`
	Transcript         string `json:"transcript"`
}
