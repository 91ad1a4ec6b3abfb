// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bbt implements a client for the Better BibTeX JSON-RPC API.
// BBT exposes richer annotation records than the native local API, so it is
// the preferred source when the plugin is installed; callers probe
// Available and fall back to the native client otherwise.
package bbt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/pdiddy/annotation-engine/pkg/types"
)

const defaultBaseURL = "http://127.0.0.1:23119"

// Client talks to the Better BibTeX JSON-RPC endpoint.
type Client struct {
	baseURL   string
	http      *http.Client
	userAgent string
}

// NewClient builds a client from configuration, applying defaults for the
// base URL and timeout.
func NewClient(cfg types.BBTConfig) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimRight(base, "/"),
		http:      &http.Client{Timeout: timeout},
		userAgent: cfg.UserAgent,
	}
}

// Available probes whether the BBT plugin is loaded and ready. Any failure
// counts as unavailable; callers use the native API instead.
func (c *Client) Available(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/better-bibtex/cayw?probe=true", nil)
	if err != nil {
		return false
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	var body bytes.Buffer
	if _, err := body.ReadFrom(resp.Body); err != nil {
		return false
	}
	return body.String() == "ready"
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int    `json:"id"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data"`
}

// call performs one JSON-RPC round trip and unmarshals the result into out.
func (c *Client) call(ctx context.Context, method string, params []any, out any) error {
	payload, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      1,
	})
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/better-bibtex/json-rpc", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned HTTP %d", method, resp.StatusCode)
	}

	var rpc rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpc); err != nil {
		return fmt.Errorf("parsing %s response: %w", method, err)
	}
	if rpc.Error != nil {
		msg := rpc.Error.Message
		if rpc.Error.Data != "" {
			msg += ": " + rpc.Error.Data
		}
		return fmt.Errorf("BBT API error: %s", msg)
	}

	if out != nil && len(rpc.Result) > 0 {
		if err := json.Unmarshal(rpc.Result, out); err != nil {
			return fmt.Errorf("parsing %s result: %w", method, err)
		}
	}
	return nil
}

// CitationKey resolves a Zotero item key to its BBT citation key. The
// personal library is id 1. Returns the empty string when BBT has no key
// for the item.
func (c *Client) CitationKey(ctx context.Context, itemKey string, libraryID int) (string, error) {
	if libraryID <= 0 {
		libraryID = 1
	}
	full := fmt.Sprintf("%d:%s", libraryID, itemKey)

	var mapping map[string]string
	if err := c.call(ctx, "item.citationkey", []any{[]string{full}}, &mapping); err != nil {
		return "", err
	}
	return mapping[full], nil
}

type searchResult struct {
	Citekey  string `json:"citekey"`
	Title    string `json:"title"`
	ItemType string `json:"itemType"`
}

// searchItem looks up item metadata by citation key.
func (c *Client) searchItem(ctx context.Context, citekey string) (*searchResult, error) {
	var results []searchResult
	if err := c.call(ctx, "item.search", []any{citekey}, &results); err != nil {
		return nil, err
	}
	for i := range results {
		if results[i].Citekey == citekey {
			return &results[i], nil
		}
	}
	return nil, nil
}

// wireAttachment is a BBT attachment record. Annotation fields arrive at
// the top level of each annotation, unlike the native API's data envelope.
type wireAttachment struct {
	Path        string           `json:"path"`
	Open        string           `json:"open"`
	Title       string           `json:"title"`
	Annotations []wireAnnotation `json:"annotations"`
}

type wireAnnotation struct {
	Key                 string      `json:"key"`
	ParentItem          string      `json:"parentItem"`
	AnnotationType      string      `json:"annotationType"`
	AnnotationText      string      `json:"annotationText"`
	AnnotationComment   string      `json:"annotationComment"`
	AnnotationColor     string      `json:"annotationColor"`
	AnnotationPageLabel string      `json:"annotationPageLabel"`
	AnnotationSortIndex string      `json:"annotationSortIndex"`
	Tags                []types.Tag `json:"tags"`
}

// attachments fetches an item's attachments with embedded annotations.
func (c *Client) attachments(ctx context.Context, citekey string, libraryID int) ([]wireAttachment, error) {
	var atts []wireAttachment
	if err := c.call(ctx, "item.attachments", []any{citekey, libraryID}, &atts); err != nil {
		return nil, err
	}
	return atts, nil
}

// AnnotationsForItem fetches an item with all annotations via BBT. Unlike
// the native aggregation this returns an error, so the caller can fall back
// to the native API.
func (c *Client) AnnotationsForItem(ctx context.Context, itemKey string, libraryID int) (types.Item, error) {
	if libraryID <= 0 {
		libraryID = 1
	}

	citekey, err := c.CitationKey(ctx, itemKey, libraryID)
	if err != nil {
		return types.Item{}, err
	}
	if citekey == "" {
		return types.Item{}, fmt.Errorf("no citation key found for item %s", itemKey)
	}

	info, err := c.searchItem(ctx, citekey)
	if err != nil {
		return types.Item{}, err
	}
	if info == nil {
		return types.Item{}, fmt.Errorf("item not found for citekey %s", citekey)
	}

	atts, err := c.attachments(ctx, citekey, libraryID)
	if err != nil {
		return types.Item{}, err
	}

	item := types.Item{
		ID:          itemKey,
		Title:       info.Title,
		ItemType:    info.ItemType,
		CitationKey: citekey,
	}
	for _, att := range atts {
		item.Attachments = append(item.Attachments, toAttachment(att))
	}
	return item, nil
}

func toAttachment(att wireAttachment) types.Attachment {
	filename := ""
	if att.Path != "" {
		filename = path.Base(strings.ReplaceAll(att.Path, `\`, "/"))
	}

	title := att.Title
	if title == "" {
		title = filename
	}
	if title == "" {
		title = "Unknown"
	}

	out := types.Attachment{
		ID:          attachmentID(att),
		Title:       title,
		Filename:    filename,
		Path:        att.Path,
		ContentType: contentTypeFor(filename),
	}
	for _, ann := range att.Annotations {
		annType := types.AnnotationType(ann.AnnotationType)
		if annType == "" {
			annType = types.AnnotationUnknown
		}
		out.Annotations = append(out.Annotations, types.Annotation{
			Key:       ann.Key,
			Type:      annType,
			Text:      ann.AnnotationText,
			Comment:   ann.AnnotationComment,
			Color:     ann.AnnotationColor,
			PageLabel: ann.AnnotationPageLabel,
			SortIndex: ann.AnnotationSortIndex,
			Tags:      ann.Tags,
		})
	}
	return out
}

// attachmentID recovers the attachment's Zotero key from the record. BBT
// does not expose it directly, but its "open" deep link ends in
// /items/<key> and annotations carry it as their parent.
func attachmentID(att wireAttachment) string {
	if i := strings.LastIndex(att.Open, "/items/"); i >= 0 {
		id := att.Open[i+len("/items/"):]
		if q := strings.IndexByte(id, '?'); q >= 0 {
			id = id[:q]
		}
		if id != "" {
			return id
		}
	}
	if len(att.Annotations) > 0 {
		return att.Annotations[0].ParentItem
	}
	return ""
}

// contentTypeFor infers the attachment content type from the filename. BBT
// attachment records carry no contentType field.
func contentTypeFor(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".pdf":
		return types.ContentTypePDF
	case ".epub":
		return types.ContentTypeEPUB
	}
	return ""
}
