// internal/app/features/communications/handler.go
package communications

import (
	"context"
	"encoding/json"
	"net/http"

	commstore "github.com/dalemusser/admitflow/internal/app/store/communications"
	leadstore "github.com/dalemusser/admitflow/internal/app/store/leads"
	"github.com/dalemusser/admitflow/internal/app/system/apperrors"
	"github.com/dalemusser/admitflow/internal/app/system/notify"
	"github.com/dalemusser/admitflow/internal/app/system/respond"
	"github.com/dalemusser/admitflow/internal/app/system/sanitize"
	"github.com/dalemusser/admitflow/internal/app/system/scope"
	"github.com/dalemusser/admitflow/internal/app/system/timeouts"
	"github.com/dalemusser/admitflow/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the outreach endpoints: sending a message to a lead over
// a configured channel and reading a lead's message history. Excluded
// leads are never contacted.
type Handler struct {
	DB      *mongo.Database
	Senders notify.Senders
	Log     *zap.Logger
	ErrLog  *zap.Logger
}

func NewHandler(db *mongo.Database, senders notify.Senders, errLog, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Senders: senders, Log: logger, ErrLog: errLog}
}

// Routes mounts the communication routes.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/send", h.HandleSend)
	r.Get("/student/{id}", h.ServeHistory)
	return r
}

// HandleSend delivers one message to a lead and records the attempt.
func (h *Handler) HandleSend(w http.ResponseWriter, r *http.Request) {
	sc, _ := scope.FromRequest(r)

	var body struct {
		StudentID primitive.ObjectID `json:"student_id"`
		Channel   string             `json:"channel"`
		Subject   string             `json:"subject"`
		Template  string             `json:"template"`
		Body      string             `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	lead, err := leadstore.New(h.DB).GetByID(ctx, body.StudentID)
	if err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}
	if lead.IsExcluded {
		respond.Error(w, h.ErrLog, apperrors.BusinessRule("lead has unsubscribed from outreach"))
		return
	}

	msg := notify.Message{
		Subject:  body.Subject,
		Template: body.Template,
		Body:     sanitize.Note(body.Body),
	}

	sendErr := h.send(ctx, body.Channel, lead, msg)
	status := "sent"
	if sendErr != nil {
		status = "failed"
		h.Log.Warn("outreach send failed",
			zap.String("channel", body.Channel),
			zap.Error(sendErr))
	}

	log := models.CommunicationLog{
		CollegeID: sc.CollegeID,
		StudentID: lead.ID,
		Channel:   body.Channel,
		Subject:   body.Subject,
		Template:  body.Template,
		Status:    status,
		SentBy:    sc.CounselorID,
	}
	recorded, err := commstore.New(h.DB).Record(ctx, log)
	if err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}
	if sendErr != nil {
		respond.Error(w, h.ErrLog, apperrors.BusinessRule("message could not be delivered"))
		return
	}
	respond.OK(w, recorded, "message sent")
}

func (h *Handler) send(ctx context.Context, channel string, lead models.Lead, msg notify.Message) error {
	switch channel {
	case models.ChannelEmail:
		if h.Senders.Email == nil {
			return apperrors.BusinessRule("email channel is not configured")
		}
		msg.Recipients = []string{lead.Email}
		return h.Senders.Email.SendEmail(ctx, msg)
	case models.ChannelSMS:
		if h.Senders.SMS == nil {
			return apperrors.BusinessRule("sms channel is not configured")
		}
		msg.Recipients = []string{lead.CountryCode + lead.Mobile}
		return h.Senders.SMS.SendSMS(ctx, msg)
	case models.ChannelWhatsApp:
		if h.Senders.WhatsApp == nil {
			return apperrors.BusinessRule("whatsapp channel is not configured")
		}
		msg.Recipients = []string{lead.CountryCode + lead.Mobile}
		return h.Senders.WhatsApp.SendWhatsApp(ctx, msg)
	default:
		return apperrors.BusinessRule("unknown channel %q", channel)
	}
}

// ServeHistory returns a lead's outreach history, newest first.
func (h *Handler) ServeHistory(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.ErrLog, apperrors.InvalidID("student id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	logs, err := commstore.New(h.DB).ListByStudent(ctx, id, 100)
	if err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}
	respond.OK(w, logs, "")
}
