package extraction

import (
	"bytes"
	"claimdesk-service/internal/app/contracts"
	"claimdesk-service/internal/pkg/claims_dto"
	"claimdesk-service/internal/pkg/constvars"
	"claimdesk-service/internal/pkg/exceptions"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"
)

const serviceName = "extraction"

var (
	extractionClientInstance contracts.ExtractionClient
	onceExtractionClient     sync.Once
)

type extractionClient struct {
	BaseUrl string
	Log     *zap.Logger
}

func NewExtractionClient(baseUrl string, logger *zap.Logger) contracts.ExtractionClient {
	onceExtractionClient.Do(func() {
		client := &extractionClient{
			BaseUrl: baseUrl,
			Log:     logger,
		}
		extractionClientInstance = client
	})
	return extractionClientInstance
}

func (c *extractionClient) GetClaimExtractionData(ctx context.Context, claimID string) (*claims_dto.ExtractionDocument, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("extractionClient.GetClaimExtractionData called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClaimIDKey, claimID),
	)

	url := fmt.Sprintf("%s/claims/%s/extraction", c.BaseUrl, claimID)

	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, url, nil)
	if err != nil {
		c.Log.Error("extractionClient.GetClaimExtractionData error creating HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		c.Log.Error("extractionClient.GetClaimExtractionData error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK {
		statusErr := fmt.Errorf("status %d from %s", resp.StatusCode, url)
		c.Log.Error("extractionClient.GetClaimExtractionData unexpected status",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(statusErr),
		)
		return nil, exceptions.ErrServiceStatusNotOK(statusErr, serviceName)
	}

	var document claims_dto.ExtractionDocument
	err = json.NewDecoder(resp.Body).Decode(&document)
	if err != nil {
		c.Log.Error("extractionClient.GetClaimExtractionData error decoding response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrDecodeResponse(err, serviceName)
	}

	c.Log.Info("extractionClient.GetClaimExtractionData succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClaimIDKey, claimID),
		zap.Int(constvars.LoggingItemCountKey, len(document.BillItems)),
	)
	return &document, nil
}

func (c *extractionClient) PatchClaimExtractionData(ctx context.Context, claimID string, payload *claims_dto.PatchExtractionPayload) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("extractionClient.PatchClaimExtractionData called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClaimIDKey, claimID),
		zap.Int(constvars.LoggingItemCountKey, len(payload.BillItems)),
	)

	url := fmt.Sprintf("%s/claims/%s/extraction", c.BaseUrl, claimID)
	return c.send(ctx, constvars.MethodPatch, url, payload, "PatchClaimExtractionData")
}

func (c *extractionClient) SubmitChecklistData(ctx context.Context, claimID string, payload *claims_dto.ChecklistSubmission) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("extractionClient.SubmitChecklistData called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClaimIDKey, claimID),
	)

	url := fmt.Sprintf("%s/claims/%s/checklist", c.BaseUrl, claimID)
	return c.send(ctx, constvars.MethodPost, url, payload, "SubmitChecklistData")
}

func (c *extractionClient) send(ctx context.Context, method, url string, payload interface{}, operation string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	body, err := json.Marshal(payload)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		c.Log.Error("extractionClient."+operation+" error creating HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		c.Log.Error("extractionClient."+operation+" error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK && resp.StatusCode != constvars.StatusNoContent {
		statusErr := fmt.Errorf("status %d from %s", resp.StatusCode, url)
		c.Log.Error("extractionClient."+operation+" unexpected status",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(statusErr),
		)
		return exceptions.ErrServiceStatusNotOK(statusErr, serviceName)
	}
	return nil
}
