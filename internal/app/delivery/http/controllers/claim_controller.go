package controllers

import (
	"claimdesk-service/internal/app/contracts"
	"claimdesk-service/internal/app/models"
	"claimdesk-service/internal/pkg/constvars"
	"claimdesk-service/internal/pkg/dto/requests"
	"claimdesk-service/internal/pkg/exceptions"
	"claimdesk-service/internal/pkg/utils"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ClaimController struct {
	Log          *zap.Logger
	ClaimUsecase contracts.ClaimUsecase
}

var (
	claimControllerInstance *ClaimController
	onceClaimController     sync.Once
)

func NewClaimController(logger *zap.Logger, claimUsecase contracts.ClaimUsecase) *ClaimController {
	onceClaimController.Do(func() {
		instance := &ClaimController{
			Log:          logger,
			ClaimUsecase: claimUsecase,
		}
		claimControllerInstance = instance
	})
	return claimControllerInstance
}

func (ctrl *ClaimController) requestID(w http.ResponseWriter, r *http.Request, operation string) (string, bool) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("ClaimController." + operation + " requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return "", false
	}
	return requestID, true
}

func (ctrl *ClaimController) claimID(w http.ResponseWriter, r *http.Request, requestID string) (string, bool) {
	claimID := chi.URLParam(r, constvars.URLParamClaimID)
	if claimID == "" {
		ctrl.Log.Error("ClaimController missing claim ID",
			zap.String(constvars.LoggingRequestIDKey, requestID),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamIDValidation(nil, constvars.URLParamClaimID))
		return "", false
	}
	return claimID, true
}

func (ctrl *ClaimController) OpenClaim(w http.ResponseWriter, r *http.Request) {
	requestID, ok := ctrl.requestID(w, r, "OpenClaim")
	if !ok {
		return
	}
	claimID, ok := ctrl.claimID(w, r, requestID)
	if !ok {
		return
	}
	ctrl.Log.Info("ClaimController.OpenClaim called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClaimIDKey, claimID),
	)

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	response, err := ctrl.ClaimUsecase.OpenClaim(ctx, claimID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessClaimOpened, response)
}

func (ctrl *ClaimController) CloseClaim(w http.ResponseWriter, r *http.Request) {
	requestID, ok := ctrl.requestID(w, r, "CloseClaim")
	if !ok {
		return
	}
	claimID, ok := ctrl.claimID(w, r, requestID)
	if !ok {
		return
	}
	ctrl.Log.Info("ClaimController.CloseClaim called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClaimIDKey, claimID),
	)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := ctrl.ClaimUsecase.CloseClaim(ctx, claimID); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessClaimClosed, nil)
}

func (ctrl *ClaimController) Snapshot(w http.ResponseWriter, r *http.Request) {
	requestID, ok := ctrl.requestID(w, r, "Snapshot")
	if !ok {
		return
	}
	claimID, ok := ctrl.claimID(w, r, requestID)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, err := ctrl.ClaimUsecase.Snapshot(ctx, claimID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessSnapshotFetched, response)
}

func (ctrl *ClaimController) UpdateLineItem(w http.ResponseWriter, r *http.Request) {
	requestID, ok := ctrl.requestID(w, r, "UpdateLineItem")
	if !ok {
		return
	}
	claimID, ok := ctrl.claimID(w, r, requestID)
	if !ok {
		return
	}
	itemID := chi.URLParam(r, constvars.URLParamItemID)
	if itemID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamIDValidation(nil, constvars.URLParamItemID))
		return
	}

	request := new(requests.UpdateLineItem)
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		ctrl.Log.Error("ClaimController.UpdateLineItem error decoding JSON",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, err := ctrl.ClaimUsecase.UpdateLineItem(ctx, claimID, itemID, request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessLineItemUpdated, response)
}

func (ctrl *ClaimController) RemoveLineItem(w http.ResponseWriter, r *http.Request) {
	requestID, ok := ctrl.requestID(w, r, "RemoveLineItem")
	if !ok {
		return
	}
	claimID, ok := ctrl.claimID(w, r, requestID)
	if !ok {
		return
	}
	itemID := chi.URLParam(r, constvars.URLParamItemID)
	if itemID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamIDValidation(nil, constvars.URLParamItemID))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, err := ctrl.ClaimUsecase.RemoveLineItem(ctx, claimID, itemID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessLineItemRemoved, response)
}

func (ctrl *ClaimController) CompleteStage(w http.ResponseWriter, r *http.Request) {
	requestID, ok := ctrl.requestID(w, r, "CompleteStage")
	if !ok {
		return
	}
	claimID, ok := ctrl.claimID(w, r, requestID)
	if !ok {
		return
	}
	stage := chi.URLParam(r, constvars.URLParamStage)
	if stage == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamIDValidation(nil, constvars.URLParamStage))
		return
	}

	request := new(requests.CompleteStage)
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	response, err := ctrl.ClaimUsecase.CompleteStage(ctx, claimID, models.WorkflowStage(stage), request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessStageCompleted, response)
}

func (ctrl *ClaimController) NavigateToStage(w http.ResponseWriter, r *http.Request) {
	requestID, ok := ctrl.requestID(w, r, "NavigateToStage")
	if !ok {
		return
	}
	claimID, ok := ctrl.claimID(w, r, requestID)
	if !ok {
		return
	}

	request := new(requests.NavigateStage)
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, err := ctrl.ClaimUsecase.NavigateToStage(ctx, claimID, models.WorkflowStage(request.TargetStage))
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessStageNavigated, response)
}

func (ctrl *ClaimController) LockDigitization(w http.ResponseWriter, r *http.Request) {
	requestID, ok := ctrl.requestID(w, r, "LockDigitization")
	if !ok {
		return
	}
	claimID, ok := ctrl.claimID(w, r, requestID)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, err := ctrl.ClaimUsecase.LockDigitization(ctx, claimID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessDigitizationLocked, response)
}

func (ctrl *ClaimController) SetOpenQuery(w http.ResponseWriter, r *http.Request) {
	requestID, ok := ctrl.requestID(w, r, "SetOpenQuery")
	if !ok {
		return
	}
	claimID, ok := ctrl.claimID(w, r, requestID)
	if !ok {
		return
	}

	request := new(requests.SetOpenQuery)
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, err := ctrl.ClaimUsecase.SetOpenQuery(ctx, claimID, request.HasOpenQuery)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessOpenQuerySet, response)
}

func (ctrl *ClaimController) TriggerRerun(w http.ResponseWriter, r *http.Request) {
	requestID, ok := ctrl.requestID(w, r, "TriggerRerun")
	if !ok {
		return
	}
	claimID, ok := ctrl.claimID(w, r, requestID)
	if !ok {
		return
	}
	ctrl.Log.Info("ClaimController.TriggerRerun called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClaimIDKey, claimID),
	)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, err := ctrl.ClaimUsecase.TriggerRerun(ctx, claimID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusAccepted, constvars.SuccessRerunTriggered, response)
}

func (ctrl *ClaimController) SubmitDecision(w http.ResponseWriter, r *http.Request) {
	requestID, ok := ctrl.requestID(w, r, "SubmitDecision")
	if !ok {
		return
	}
	claimID, ok := ctrl.claimID(w, r, requestID)
	if !ok {
		return
	}
	ctrl.Log.Info("ClaimController.SubmitDecision called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClaimIDKey, claimID),
	)

	request := new(requests.SubmitDecision)
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	response, err := ctrl.ClaimUsecase.SubmitDecision(ctx, claimID, request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessDecisionSubmitted, response)
}

func (ctrl *ClaimController) SelectDocument(w http.ResponseWriter, r *http.Request) {
	requestID, ok := ctrl.requestID(w, r, "SelectDocument")
	if !ok {
		return
	}
	claimID, ok := ctrl.claimID(w, r, requestID)
	if !ok {
		return
	}

	request := new(requests.SelectDocument)
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, err := ctrl.ClaimUsecase.SelectDocument(ctx, claimID, request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessDocumentSelected, response)
}

func (ctrl *ClaimController) MarkChecklistItem(w http.ResponseWriter, r *http.Request) {
	requestID, ok := ctrl.requestID(w, r, "MarkChecklistItem")
	if !ok {
		return
	}
	claimID, ok := ctrl.claimID(w, r, requestID)
	if !ok {
		return
	}
	itemKey := chi.URLParam(r, constvars.URLParamItemKey)
	if itemKey == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamIDValidation(nil, constvars.URLParamItemKey))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, err := ctrl.ClaimUsecase.MarkChecklistItem(ctx, claimID, itemKey)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessChecklistUpdated, response)
}

func (ctrl *ClaimController) RaiseChecklistQuery(w http.ResponseWriter, r *http.Request) {
	requestID, ok := ctrl.requestID(w, r, "RaiseChecklistQuery")
	if !ok {
		return
	}
	claimID, ok := ctrl.claimID(w, r, requestID)
	if !ok {
		return
	}
	itemKey := chi.URLParam(r, constvars.URLParamItemKey)
	if itemKey == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamIDValidation(nil, constvars.URLParamItemKey))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, err := ctrl.ClaimUsecase.RaiseChecklistQuery(ctx, claimID, itemKey)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessChecklistUpdated, response)
}

func (ctrl *ClaimController) SubmitChecklist(w http.ResponseWriter, r *http.Request) {
	requestID, ok := ctrl.requestID(w, r, "SubmitChecklist")
	if !ok {
		return
	}
	claimID, ok := ctrl.claimID(w, r, requestID)
	if !ok {
		return
	}
	ctrl.Log.Info("ClaimController.SubmitChecklist called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClaimIDKey, claimID),
	)

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	if err := ctrl.ClaimUsecase.SubmitChecklist(ctx, claimID); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessChecklistSubmitted, nil)
}

func (ctrl *ClaimController) DocumentURL(w http.ResponseWriter, r *http.Request) {
	requestID, ok := ctrl.requestID(w, r, "DocumentURL")
	if !ok {
		return
	}
	claimID, ok := ctrl.claimID(w, r, requestID)
	if !ok {
		return
	}
	documentID := chi.URLParam(r, constvars.URLParamDocumentID)
	if documentID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamIDValidation(nil, constvars.URLParamDocumentID))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, err := ctrl.ClaimUsecase.DocumentURL(ctx, claimID, documentID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessDocumentURLIssued, response)
}
