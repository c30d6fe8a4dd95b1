package editor

import "go.uber.org/zap"

// DecodeRequest asks the caller to decode Path asynchronously and report
// back with the same Token and Seq.
type DecodeRequest struct {
	Token string
	Seq   int
	Path  string
}

// DecodeResult is the outcome of a DecodeRequest.
type DecodeResult struct {
	Token   string
	Seq     int
	DataURL string
	Err     error
}

// AttachFile records the chosen file. The current preview stays in the
// draft until the matching decode result arrives. Each call supersedes the
// requests issued before it.
func (s *Session) AttachFile(path string) (DecodeRequest, bool) {
	if !s.Active() || path == "" {
		return DecodeRequest{}, false
	}
	s.attachSeq++
	s.draft.FilePath = path
	return DecodeRequest{Token: s.token, Seq: s.attachSeq, Path: path}, true
}

// ApplyDecoded installs a decode result if it answers the latest attach of
// the open session. Results for a closed or reopened session, or for a file
// that has since been replaced, are dropped. A failed decode leaves no
// preview.
func (s *Session) ApplyDecoded(r DecodeResult) bool {
	if !s.Active() || r.Token == "" || r.Token != s.token {
		s.log.Debug("stale decode dropped", zap.String("result_session", r.Token), zap.String("session", s.token))
		return false
	}
	if r.Seq != s.attachSeq {
		s.log.Debug("superseded decode dropped", zap.Int("result_seq", r.Seq), zap.Int("seq", s.attachSeq))
		return false
	}
	if r.Err != nil {
		s.log.Debug("decode failed", zap.String("path", s.draft.FilePath), zap.Error(r.Err))
		s.draft.ImageDataURL = ""
		s.draft.FilePath = ""
		return true
	}
	s.draft.ImageDataURL = r.DataURL
	return true
}
