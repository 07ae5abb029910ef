package getmotion

// StatusPayload is the raw body of the job status endpoint, exposed verbatim.
//
// The only guaranteed key is "status". Everything else (stage, step_detail,
// progress fields, next_action, error, timestamps) is optional and may vary
// across backend versions, so the payload stays an open mapping and the
// accessors below probe known key names without filtering anything out.
type StatusPayload map[string]any

// progressKeys are the known progress field names, in priority order.
// Backends have shipped all three spellings.
var progressKeys = []string{"progress", "progress_percent", "percent_complete"}

// Status returns the job status, or the empty Status when missing.
func (p StatusPayload) Status() Status {
	s, _ := p["status"].(string)
	return Status(s)
}

// Stage returns the coarse pipeline stage (analyze, review, compose, render,
// done, error), or "" when the backend omits it.
func (p StatusPayload) Stage() string {
	s, _ := p["stage"].(string)
	return s
}

// StepDetail returns the free-text description of the current step, or "".
func (p StatusPayload) StepDetail() string {
	s, _ := p["step_detail"].(string)
	return s
}

// Progress returns the job progress value under the first known key name
// present in the payload. The boolean is false when no progress field exists.
func (p StatusPayload) Progress() (float64, bool) {
	for _, key := range progressKeys {
		switch v := p[key].(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		}
	}
	return 0, false
}

// ErrorInfo returns the server-reported failure code and detail from the
// nested error object, when present.
func (p StatusPayload) ErrorInfo() (code, detail string) {
	obj, ok := p["error"].(map[string]any)
	if !ok {
		return "", ""
	}
	code, _ = obj["code"].(string)
	detail, _ = obj["detail"].(string)
	return code, detail
}

// NextAction returns the server's suggested next action object (kind,
// review_token, proposal_key, ...), or nil when the backend omits it.
func (p StatusPayload) NextAction() map[string]any {
	obj, _ := p["next_action"].(map[string]any)
	return obj
}
