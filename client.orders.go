package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"go.uber.org/zap"
)

// orderGateway implements OrderSubmitter against the spreadsheet-backed
// order collaborator. The submission travels as one multipart call with
// the contact fields, the serialized cart snapshot and the optional
// proof-of-payment attachment.
type orderGateway struct {
	logger *zap.Logger
	config *OrdersConfig
	client *http.Client
}

// NewOrderGateway provides a ready to use order submission client.
func NewOrderGateway(logger *zap.Logger, config *OrdersConfig) OrderSubmitter {
	return &orderGateway{
		logger: logger,
		config: config,
		client: &http.Client{Timeout: config.RequestTimeout},
	}
}

// Submit posts the order payload to the external collaborator and maps
// its acknowledgement. A missing reference or message on the wire is
// tolerated and left empty for the caller to fill with fallbacks.
func (og *orderGateway) Submit(ctx context.Context, payload OrderPayload, proof *ProofFile) (OrderResult, error) {
	var result OrderResult

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	fields := map[string]string{
		"name":        payload.Form.Name,
		"email":       payload.Form.Email,
		"phone":       payload.Form.Phone,
		"social":      payload.Form.Social,
		"fulfillment": payload.Form.Fulfillment,
		"notes":       payload.Form.Notes,
		"total":       fmt.Sprintf("%d", payload.Total),
	}
	for field, value := range fields {
		if err := writer.WriteField(field, value); err != nil {
			return result, err
		}
	}

	linesBytes, err := json.Marshal(payload.Lines)
	if err != nil {
		return result, err
	}
	if err = writer.WriteField("order", string(linesBytes)); err != nil {
		return result, err
	}

	if proof != nil {
		part, errF := writer.CreateFormFile("proof", proof.Name)
		if errF != nil {
			return result, errF
		}
		if _, errF = part.Write(proof.Content); errF != nil {
			return result, errF
		}
	}

	if err = writer.Close(); err != nil {
		return result, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, og.config.SubmitURL, body)
	if err != nil {
		return result, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := og.client.Do(req)
	if err != nil {
		return result, fmt.Errorf("order collaborator call failed: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return result, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		og.logger.Error("orders: collaborator rejected the submission",
			zap.Int("response.status", resp.StatusCode),
			zap.ByteString("response.body", respBytes),
		)
		return result, fmt.Errorf("order collaborator answered with status %d", resp.StatusCode)
	}

	// tolerate acknowledgements without a body or with unknown shapes.
	if len(respBytes) > 0 {
		if err = json.Unmarshal(respBytes, &result); err != nil {
			og.logger.Warn("orders: unparsable acknowledgement, using fallbacks", zap.Error(err))
			return OrderResult{}, nil
		}
	}
	return result, nil
}
