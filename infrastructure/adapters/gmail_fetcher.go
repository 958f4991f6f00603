package adapters

import (
	"context"
	"encoding/base64"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ekaud/my-audio-summaries/application/ports/outbound"
	"github.com/ekaud/my-audio-summaries/domain"
)

const (
	gmailApiBase = "https://gmail.googleapis.com/gmail/v1"
	driveApiBase = "https://www.googleapis.com/drive/v3"
)

var driveLinkPatterns = []*regexp.Regexp{
	regexp.MustCompile(`docs\.google\.com/document/d/([a-zA-Z0-9-_]+)`),
	regexp.MustCompile(`docs\.google\.com/spreadsheets/d/([a-zA-Z0-9-_]+)`),
	regexp.MustCompile(`docs\.google\.com/presentation/d/([a-zA-Z0-9-_]+)`),
}

// Attachment extensions the downstream processors can handle, keyed to the
// MIME types Gmail reports for them.
var supportedAttachmentTypes = map[string]string{
	".pdf":  "application/pdf",
	".txt":  "text/plain",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

type gmailMessageRef struct {
	ID string `json:"id"`
}

type gmailMessageList struct {
	Messages      []gmailMessageRef `json:"messages"`
	NextPageToken string            `json:"nextPageToken"`
}

type gmailHeader struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type gmailBody struct {
	AttachmentID string `json:"attachmentId"`
	Data         string `json:"data"`
}

type gmailPart struct {
	MimeType string        `json:"mimeType"`
	Filename string        `json:"filename"`
	Headers  []gmailHeader `json:"headers"`
	Body     gmailBody     `json:"body"`
	Parts    []gmailPart   `json:"parts"`
}

type gmailMessage struct {
	ID           string    `json:"id"`
	InternalDate string    `json:"internalDate"`
	Payload      gmailPart `json:"payload"`
}

type gmailAttachment struct {
	Data string `json:"data"`
}

type driveFile struct {
	Name         string `json:"name"`
	MimeType     string `json:"mimeType"`
	ModifiedTime string `json:"modifiedTime"`
}

type gmailFetcher struct {
	logger     outbound.LoggerPort
	fetcher    ContentFetcher
	authorizer Authorizer
	workerPool outbound.TaskDispatcher
	seenCache  outbound.SeenCachePort
	gmailBase  string
	driveBase  string
}

func NewGmailFetcher(logger outbound.LoggerPort, fetcher ContentFetcher, authorizer Authorizer,
	workerPool outbound.TaskDispatcher, seenCache outbound.SeenCachePort) outbound.DocumentSourcePort {
	return &gmailFetcher{
		logger:     logger,
		fetcher:    fetcher,
		authorizer: authorizer,
		workerPool: workerPool,
		seenCache:  seenCache,
		gmailBase:  gmailApiBase,
		driveBase:  driveApiBase,
	}
}

// Fetch streams supported attachments and linked Drive documents from every
// mail received after since. Failures inside one message are logged and
// skipped so a broken attachment never starves the rest of the mailbox.
func (f *gmailFetcher) Fetch(ctx context.Context, since time.Time) (<-chan domain.Document, <-chan error) {
	out := make(chan domain.Document)
	errCh := make(chan error, 1)

	err := f.workerPool.Submit(func() {
		defer close(out)
		defer close(errCh)

		token, err := f.authorizer.Authorize(ctx)
		if err != nil {
			errCh <- &domain.ServiceError{Service: "gmail", LineIndex: -1, Err: err}
			return
		}

		query := "after:" + since.Format("2006/01/02")
		f.logger.InfoWithFields("searching mailbox", map[string]interface{}{"query": query})

		refs, err := f.listMessages(ctx, token, query)
		if err != nil {
			errCh <- &domain.ServiceError{Service: "gmail", LineIndex: -1, Err: err}
			return
		}
		f.logger.InfoWithFields("found messages", map[string]interface{}{"count": len(refs)})

		for _, ref := range refs {
			select {
			case <-ctx.Done():
				return
			default:
			}

			msg, err := f.getMessage(ctx, token, ref.ID)
			if err != nil {
				f.logger.ErrorWithFields(err, "failed to load message, skipping", map[string]interface{}{
					"message_id": ref.ID,
				})
				continue
			}

			for _, doc := range f.processMessage(ctx, token, msg) {
				out <- doc
			}
		}
	})
	if err != nil {
		errCh <- err
	}

	return out, errCh
}

func (f *gmailFetcher) listMessages(ctx context.Context, token string, query string) ([]gmailMessageRef, error) {
	var refs []gmailMessageRef
	pageToken := ""
	for {
		endpoint := fmt.Sprintf("%s/users/me/messages?q=%s", f.gmailBase, url.QueryEscape(query))
		if pageToken != "" {
			endpoint += "&pageToken=" + url.QueryEscape(pageToken)
		}

		var list gmailMessageList
		if err := f.getJSON(ctx, token, endpoint, &list); err != nil {
			return nil, err
		}
		refs = append(refs, list.Messages...)

		if list.NextPageToken == "" {
			return refs, nil
		}
		pageToken = list.NextPageToken
	}
}

func (f *gmailFetcher) getMessage(ctx context.Context, token string, id string) (*gmailMessage, error) {
	var msg gmailMessage
	endpoint := fmt.Sprintf("%s/users/me/messages/%s?format=full", f.gmailBase, id)
	if err := f.getJSON(ctx, token, endpoint, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (f *gmailFetcher) processMessage(ctx context.Context, token string, msg *gmailMessage) []domain.Document {
	headers := make(map[string]string, len(msg.Payload.Headers))
	for _, h := range msg.Payload.Headers {
		headers[h.Name] = h.Value
	}

	timestamp := time.Now()
	if ms, err := strconv.ParseInt(msg.InternalDate, 10, 64); err == nil {
		timestamp = time.UnixMilli(ms)
	}

	var documents []domain.Document
	for _, part := range collectParts(msg.Payload) {
		if doc := f.fetchAttachment(ctx, token, msg.ID, part, headers, timestamp); doc != nil {
			documents = append(documents, *doc)
		}
	}

	for _, resourceID := range extractDriveIDs(emailBody(msg.Payload)) {
		if doc := f.fetchDriveResource(ctx, token, resourceID); doc != nil {
			documents = append(documents, *doc)
		}
	}

	return documents
}

func (f *gmailFetcher) fetchAttachment(ctx context.Context, token string, msgID string, part gmailPart,
	headers map[string]string, timestamp time.Time) *domain.Document {
	if !supportedAttachment(part.Filename, part.MimeType) || part.Body.AttachmentID == "" {
		return nil
	}

	cacheKey := "attachment/" + msgID + "/" + part.Body.AttachmentID
	if seen, err := f.seenCache.Seen(ctx, cacheKey); err != nil || seen {
		return nil
	}

	var attachment gmailAttachment
	endpoint := fmt.Sprintf("%s/users/me/messages/%s/attachments/%s", f.gmailBase, msgID, part.Body.AttachmentID)
	if err := f.getJSON(ctx, token, endpoint, &attachment); err != nil {
		f.logger.ErrorWithFields(err, "failed to download attachment, skipping", map[string]interface{}{
			"message_id": msgID,
			"filename":   part.Filename,
		})
		return nil
	}

	payload, err := decodeWebSafe(attachment.Data)
	if err != nil {
		f.logger.ErrorWithFields(err, "failed to decode attachment, skipping", map[string]interface{}{
			"filename": part.Filename,
		})
		return nil
	}

	if err := f.seenCache.MarkSeen(ctx, cacheKey); err != nil {
		f.logger.Warn("failed to record attachment in the seen cache")
	}

	return &domain.Document{
		ID:        uuid.NewString(),
		Source:    "gmail.attachment",
		Title:     part.Filename,
		Content:   payload,
		MimeType:  part.MimeType,
		URL:       "https://mail.google.com/mail/u/0/#inbox/" + msgID,
		Timestamp: timestamp,
		Metadata: map[string]string{
			"subject":    headers["Subject"],
			"from":       headers["From"],
			"message_id": msgID,
		},
	}
}

func (f *gmailFetcher) fetchDriveResource(ctx context.Context, token string, resourceID string) *domain.Document {
	cacheKey := "drive/" + resourceID
	if seen, err := f.seenCache.Seen(ctx, cacheKey); err != nil || seen {
		return nil
	}

	var meta driveFile
	endpoint := fmt.Sprintf("%s/files/%s?fields=name,mimeType,modifiedTime", f.driveBase, resourceID)
	if err := f.getJSON(ctx, token, endpoint, &meta); err != nil {
		f.logger.ErrorWithFields(err, "failed to load Drive metadata, skipping", map[string]interface{}{
			"resource_id": resourceID,
		})
		return nil
	}

	var text string
	var source string
	switch meta.MimeType {
	case "application/vnd.google-apps.document":
		source = "gmail.gdrive.doc"
		raw, err := f.export(ctx, token, resourceID, "text/plain")
		if err != nil {
			f.logger.ErrorWithFields(err, "failed to export Drive document, skipping", map[string]interface{}{
				"resource_id": resourceID,
			})
			return nil
		}
		text = string(raw)
	case "application/vnd.google-apps.spreadsheet":
		source = "gmail.gdrive.sheet"
		raw, err := f.export(ctx, token, resourceID, "text/csv")
		if err != nil {
			f.logger.ErrorWithFields(err, "failed to export Drive spreadsheet, skipping", map[string]interface{}{
				"resource_id": resourceID,
			})
			return nil
		}
		text = formatSpreadsheet(string(raw))
	case "application/vnd.google-apps.presentation":
		source = "gmail.gdrive.slides"
		raw, err := f.export(ctx, token, resourceID, "text/plain")
		if err != nil {
			f.logger.ErrorWithFields(err, "failed to export Drive presentation, skipping", map[string]interface{}{
				"resource_id": resourceID,
			})
			return nil
		}
		text = formatPresentation(string(raw))
	default:
		f.logger.WarnWithFields("unsupported Drive resource type", map[string]interface{}{
			"mime_type": meta.MimeType,
		})
		return nil
	}

	if err := f.seenCache.MarkSeen(ctx, cacheKey); err != nil {
		f.logger.Warn("failed to record Drive resource in the seen cache")
	}

	timestamp := time.Now()
	if parsed, err := time.Parse(time.RFC3339, meta.ModifiedTime); err == nil {
		timestamp = parsed
	}

	return &domain.Document{
		ID:        uuid.NewString(),
		Source:    source,
		Title:     meta.Name,
		Content:   []byte(text),
		MimeType:  "text/plain",
		URL:       "https://docs.google.com/document/d/" + resourceID + "/",
		Timestamp: timestamp,
		Metadata: map[string]string{
			"gdrive_id":          resourceID,
			"original_mime_type": meta.MimeType,
		},
	}
}

func (f *gmailFetcher) export(ctx context.Context, token string, resourceID string, mimeType string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/files/%s/export?mimeType=%s", f.driveBase, resourceID, url.QueryEscape(mimeType))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return f.fetcher.FetchContent(req)
}

func (f *gmailFetcher) getJSON(ctx context.Context, token string, endpoint string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	payload, err := f.fetcher.FetchContent(req)
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, target)
}

// collectParts flattens the recursive MIME tree into the parts that carry a
// filename.
func collectParts(payload gmailPart) []gmailPart {
	var parts []gmailPart
	for _, part := range payload.Parts {
		parts = append(parts, collectParts(part)...)
	}
	if payload.Filename != "" {
		parts = append(parts, payload)
	}
	return parts
}

func emailBody(payload gmailPart) string {
	for _, part := range payload.Parts {
		if part.MimeType == "text/plain" && part.Body.Data != "" {
			decoded, err := decodeWebSafe(part.Body.Data)
			if err != nil {
				return ""
			}
			return string(decoded)
		}
	}
	return ""
}

func extractDriveIDs(text string) []string {
	unique := make(map[string]struct{})
	var ids []string
	for _, pattern := range driveLinkPatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			if _, ok := unique[match[1]]; !ok {
				unique[match[1]] = struct{}{}
				ids = append(ids, match[1])
			}
		}
	}
	return ids
}

func supportedAttachment(filename string, mimeType string) bool {
	lower := strings.ToLower(filename)
	for ext, wantMime := range supportedAttachmentTypes {
		if strings.HasSuffix(lower, ext) {
			return mimeType == "" || mimeType == wantMime
		}
	}
	return false
}

// decodeWebSafe handles Gmail's urlsafe base64, which may arrive unpadded.
func decodeWebSafe(data string) ([]byte, error) {
	if payload, err := base64.URLEncoding.DecodeString(data); err == nil {
		return payload, nil
	}
	return base64.RawURLEncoding.DecodeString(data)
}

func formatSpreadsheet(csvContent string) string {
	reader := csv.NewReader(strings.NewReader(csvContent))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil || len(records) == 0 {
		return csvContent
	}

	headers := records[0]
	var out []string
	out = append(out, "SPREADSHEET CONTENTS:")
	out = append(out, "Headers: "+strings.Join(headers, " | "))
	for rowNum, row := range records[1:] {
		out = append(out, fmt.Sprintf("Row %d:", rowNum+1))
		for i, value := range row {
			if i < len(headers) && strings.TrimSpace(value) != "" {
				out = append(out, fmt.Sprintf("  %s: %s", headers[i], value))
			}
		}
	}
	return strings.Join(out, "\n")
}

func formatPresentation(content string) string {
	var out []string
	slideNum := 0
	for _, slide := range strings.Split(content, "\n\n") {
		if strings.TrimSpace(slide) == "" {
			continue
		}
		slideNum++
		out = append(out, fmt.Sprintf("SLIDE %d:", slideNum), strings.TrimSpace(slide), "")
	}
	return strings.Join(out, "\n")
}
