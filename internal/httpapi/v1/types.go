package v1

type questionRequest struct {
	Question string `json:"question" binding:"required,notblank"`
}

// framesRequest carries a browser capture: base64 PCM16 mono frames.
type framesRequest struct {
	Frames     [][]byte `json:"frames"`
	SampleRate int      `json:"sample_rate" binding:"omitempty,min=8000,max=48000"`
}

type answerResponse struct {
	Question string `json:"question"`
	Variant  string `json:"variant"`
	Answer   string `json:"answer"`
}

type promptResponse struct {
	Variant string `json:"variant"`
	Prompt  string `json:"prompt"`
}

type transcribeResponse struct {
	Text string `json:"text"`
}

type audioAnswerResponse struct {
	Transcript string `json:"transcript"`
	Question   string `json:"question"`
	Variant    string `json:"variant"`
	Answer     string `json:"answer"`
}
