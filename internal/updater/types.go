package updater

import "errors"

// Request is one update invocation as delivered by the API gateway.
type Request struct {
	SourceIP    string `json:"source_ip"`
	GivenSecret string `json:"given_secret"`
	SetHostname string `json:"set_hostname"`
	SetIP       string `json:"set_ip"`
}

// normalized returns req with SetIP defaulted to SourceIP.
func (req Request) normalized() Request {
	if req.SetIP == "" {
		req.SetIP = req.SourceIP
	}
	return req
}

// Status is the outcome reported to the caller.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFail    Status = "fail"
)

// Result is the sole output of an invocation.
type Result struct {
	Status  Status `json:"return_status"`
	Message string `json:"return_message"`
}

var (
	// ErrUnknownHost means the hostname has no entry in the configuration.
	ErrUnknownHost = errors.New("unknown host")
	// ErrAuthenticationFailed means the given secret did not match.
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrQueryFailed means the current record could not be read.
	ErrQueryFailed = errors.New("query failed")
	// ErrUpdateRejected means the DNS provider refused the upsert.
	ErrUpdateRejected = errors.New("update rejected")
)
