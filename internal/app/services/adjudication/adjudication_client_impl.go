package adjudication

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

const serviceName = "adjudication"

var (
	adjudicationClientInstance contracts.AdjudicationClient
	onceAdjudicationClient     sync.Once
)

type adjudicationClient struct {
	BaseUrl string
	Log     *zap.Logger
}

func NewAdjudicationClient(baseUrl string, logger *zap.Logger) contracts.AdjudicationClient {
	onceAdjudicationClient.Do(func() {
		client := &adjudicationClient{
			BaseUrl: baseUrl,
			Log:     logger,
		}
		adjudicationClientInstance = client
	})
	return adjudicationClientInstance
}

func (c *adjudicationClient) GetManualAdjudication(ctx context.Context, claimID string) (*claims_dto.AdjudicationResponse, error) {
	url := fmt.Sprintf("%s/claims/%s/adjudication/manual", c.BaseUrl, claimID)
	return c.fetch(ctx, url, "GetManualAdjudication")
}

func (c *adjudicationClient) GetAIAdjudication(ctx context.Context, claimID string) (*claims_dto.AdjudicationResponse, error) {
	url := fmt.Sprintf("%s/claims/%s/adjudication/ai", c.BaseUrl, claimID)
	return c.fetch(ctx, url, "GetAIAdjudication")
}

// fetch retrieves one adjudication record. A 404 maps to a dedicated error so
// callers can distinguish "no record yet" from a failing service.
func (c *adjudicationClient) fetch(ctx context.Context, url, operation string) (*claims_dto.AdjudicationResponse, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("adjudicationClient."+operation+" called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("url", url),
	)

	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, url, nil)
	if err != nil {
		c.Log.Error("adjudicationClient."+operation+" error creating HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		c.Log.Error("adjudicationClient."+operation+" error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == constvars.StatusNotFound {
		return nil, exceptions.ErrAdjudicationNotFound(nil)
	}
	if resp.StatusCode != constvars.StatusOK {
		statusErr := fmt.Errorf("status %d from %s", resp.StatusCode, url)
		c.Log.Error("adjudicationClient."+operation+" unexpected status",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(statusErr),
		)
		return nil, exceptions.ErrServiceStatusNotOK(statusErr, serviceName)
	}

	var response claims_dto.AdjudicationResponse
	err = json.NewDecoder(resp.Body).Decode(&response)
	if err != nil {
		c.Log.Error("adjudicationClient."+operation+" error decoding response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrDecodeResponse(err, serviceName)
	}

	c.Log.Info("adjudicationClient."+operation+" succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingItemCountKey, len(response.Lines)),
	)
	return &response, nil
}

func (c *adjudicationClient) UpdateManualAdjudication(ctx context.Context, claimID string, payload *claims_dto.UpdateManualAdjudicationPayload) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("adjudicationClient.UpdateManualAdjudication called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClaimIDKey, claimID),
		zap.Int(constvars.LoggingItemCountKey, len(payload.Lines)),
	)

	url := fmt.Sprintf("%s/claims/%s/adjudication/manual", c.BaseUrl, claimID)
	return c.send(ctx, constvars.MethodPut, url, payload, "UpdateManualAdjudication")
}

func (c *adjudicationClient) ReAdjudicate(ctx context.Context, claimID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("adjudicationClient.ReAdjudicate called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClaimIDKey, claimID),
	)

	url := fmt.Sprintf("%s/claims/%s/adjudication/rerun", c.BaseUrl, claimID)
	return c.send(ctx, constvars.MethodPost, url, nil, "ReAdjudicate")
}

func (c *adjudicationClient) FinalizeManualAdjudication(ctx context.Context, claimID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("adjudicationClient.FinalizeManualAdjudication called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClaimIDKey, claimID),
	)

	url := fmt.Sprintf("%s/claims/%s/adjudication/finalize", c.BaseUrl, claimID)
	return c.send(ctx, constvars.MethodPost, url, nil, "FinalizeManualAdjudication")
}

func (c *adjudicationClient) send(ctx context.Context, method, url string, payload interface{}, operation string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	var bodyReader *bytes.Reader
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return exceptions.ErrCannotMarshalJSON(err)
		}
		bodyReader = bytes.NewReader(body)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		c.Log.Error("adjudicationClient."+operation+" error creating HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		c.Log.Error("adjudicationClient."+operation+" error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == constvars.StatusNotFound {
		return exceptions.ErrAdjudicationNotFound(nil)
	}
	if resp.StatusCode != constvars.StatusOK &&
		resp.StatusCode != constvars.StatusAccepted &&
		resp.StatusCode != constvars.StatusNoContent {
		statusErr := fmt.Errorf("status %d from %s", resp.StatusCode, url)
		c.Log.Error("adjudicationClient."+operation+" unexpected status",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(statusErr),
		)
		return exceptions.ErrServiceStatusNotOK(statusErr, serviceName)
	}
	return nil
}
