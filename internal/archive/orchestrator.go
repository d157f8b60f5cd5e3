// Package archive implements the channel archival engine: a long-running,
// cancellable job that pages through a channel's history, downloads referenced
// assets, and materializes a self-contained archive directory.
package archive

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/chatvault/chatvault/internal/chat"
	"github.com/chatvault/chatvault/internal/components"
	"github.com/chatvault/chatvault/internal/history"
	"github.com/chatvault/chatvault/internal/model"
	"github.com/chatvault/chatvault/internal/registry"
)

// AssetFetcher retrieves one binary resource by URL and persists it to dest.
type AssetFetcher interface {
	Fetch(ctx context.Context, url, dest string) error
}

// Deps are the collaborators one Archiver composes.
type Deps struct {
	Registry    *registry.Registry
	History     chat.History
	Channels    chat.Channels
	Permissions chat.Permissions
	Fetcher     AssetFetcher
	Controls    *components.Registry
}

// Config controls output location, batch size and reporting cadence.
type Config struct {
	OutputRoot        string
	BatchSize         int
	ReportingInterval int
	Now               func() time.Time // injectable clock for tests
}

// Request is one inbound "archive current channel" trigger.
type Request struct {
	ChannelID   string
	RequesterID string
	Status      chat.Status
}

// Archiver runs archival jobs. One instance serves all channels; per-channel
// exclusion comes from the registry.
type Archiver struct {
	deps Deps
	cfg  Config
	log  zerolog.Logger
}

// NewArchiver constructs an Archiver from dependencies.
func NewArchiver(deps Deps, cfg Config, log zerolog.Logger) *Archiver {
	if cfg.OutputRoot == "" {
		cfg.OutputRoot = "out"
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.ReportingInterval <= 0 {
		cfg.ReportingInterval = 200
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Archiver{deps: deps, cfg: cfg, log: log}
}

// Run drives one archival job from permission check to terminal state. The
// registry entry is released on every exit path. Mid-job errors are fatal to
// the job: the partial output directory stays on disk for manual inspection,
// the requester gets a generic failure notice, and the error is returned.
func (a *Archiver) Run(ctx context.Context, req Request) error {
	ok, err := a.deps.Permissions.CanManageChannel(ctx, req.RequesterID, req.ChannelID)
	if err != nil {
		a.log.Error().Stack().Err(err).Str("channel", req.ChannelID).Msg("permission check failed")
		return err
	}
	if !ok {
		if err := req.Status.ReplyEphemeral(ctx, "You need to have Manage Channel permission on the channel you want to archive"); err != nil {
			a.log.Warn().Err(err).Msg("send permission rejection")
		}
		return model.ErrUnauthorized
	}

	if !a.deps.Registry.TryAcquire(req.ChannelID) {
		if err := req.Status.ReplyEphemeral(ctx, "This channel is already being archived!"); err != nil {
			a.log.Warn().Err(err).Msg("send conflict rejection")
		}
		return model.ErrArchiveInProgress
	}
	defer a.deps.Registry.Release(req.ChannelID)

	jobsStartedTotal.Inc()
	log := a.log.With().Str("channel", req.ChannelID).Logger()
	log.Info().Msg("archival job starting")

	channel, err := a.deps.Channels.ChannelInfo(ctx, req.ChannelID)
	if err != nil {
		return a.fail(ctx, req.Status, log, err, false)
	}

	layout, err := NewLayout(a.cfg.OutputRoot, req.ChannelID, a.cfg.Now())
	if err != nil {
		return a.fail(ctx, req.Status, log, err, false)
	}

	ctrl := NewController(req.Status, log)
	token := a.deps.Controls.Register(ctrl.HandleActivation)
	defer a.deps.Controls.Deregister(token)

	if err := req.Status.Reply(ctx, "Archiving...", chat.Control{Token: token, Label: "Cancel"}); err != nil {
		return a.fail(ctx, req.Status, log, err, false)
	}

	job := newJob(req.ChannelID, layout)
	walker := history.NewWalker(a.deps.History, req.ChannelID, a.cfg.BatchSize)
	rep := newReporter(req.Status, a.cfg.ReportingInterval)

	for !ctrl.Requested() {
		batch, err := walker.Next(ctx)
		if err != nil {
			return a.fail(ctx, req.Status, log, err, true)
		}
		if len(batch) == 0 {
			break
		}

		for _, msg := range batch {
			if ctrl.Requested() {
				break
			}
			if err := a.processMessage(ctx, job, msg); err != nil {
				return a.fail(ctx, req.Status, log, err, true)
			}
			if !ctrl.Requested() {
				if err := rep.observe(ctx, job.Count(), msg.Timestamp); err != nil {
					log.Warn().Err(err).Msg("progress report")
				}
			}
		}
	}

	if ctrl.Requested() {
		log.Info().Int("messages", job.Count()).Msg("archival cancelled, discarding output")
		if err := layout.Discard(); err != nil {
			log.Error().Stack().Err(err).Str("dir", layout.Dir()).Msg("discard output directory")
		}
		ctrl.Finish(ctx)
		jobsCancelledTotal.Inc()
		return nil
	}

	manifest := job.Manifest(model.ArchivedChannel{ID: channel.ID, Name: channel.Name})
	if err := layout.WriteManifest(manifest); err != nil {
		return a.fail(ctx, req.Status, log, err, true)
	}

	if err := req.Status.Delete(ctx); err != nil {
		log.Warn().Err(err).Msg("delete status message")
	}
	if err := req.Status.FollowUp(ctx, "Archival finished!"); err != nil {
		log.Warn().Err(err).Msg("send completion notice")
	}

	jobsCompletedTotal.Inc()
	log.Info().Int("messages", job.Count()).Str("dir", layout.Dir()).Msg("archival finished")
	return nil
}

// processMessage archives one message: avatar for a newly-seen author first,
// then all attachments concurrently, then the message record itself.
func (a *Archiver) processMessage(ctx context.Context, job *Job, msg chat.Message) error {
	if !job.HasAuthor(msg.Author.ID) {
		dest := job.layout.AvatarPath(msg.Author.ID)
		if err := a.deps.Fetcher.Fetch(ctx, msg.Author.AvatarPNGURL(), dest); err != nil {
			return err
		}
		assetsFetchedTotal.Inc()
		job.AddUser(model.ArchivedUser{
			ID:            msg.Author.ID,
			Username:      msg.Author.Username,
			Discriminator: msg.Author.Discriminator,
		})
	}

	rec := model.ArchivedMessage{
		ID:      msg.ID,
		Content: msg.Content,
		UserID:  msg.Author.ID,
	}

	if len(msg.Attachments) > 0 {
		if err := a.fetchAttachments(ctx, job.layout, msg.Attachments); err != nil {
			return err
		}
		for _, att := range msg.Attachments {
			rec.Attachments = append(rec.Attachments, model.ArchivedAttachment{
				ID:          att.ID,
				ContentType: att.ContentType,
			})
		}
	}

	job.Record(rec)
	messagesArchivedTotal.Inc()
	return nil
}

// fetchAttachments starts all fetches for one message together and waits for
// all of them before returning the first error, if any.
func (a *Archiver) fetchAttachments(ctx context.Context, layout *Layout, atts []chat.Attachment) error {
	var wg sync.WaitGroup
	errs := make(chan error, len(atts))
	for _, att := range atts {
		wg.Add(1)
		go func(att chat.Attachment) {
			defer wg.Done()
			if err := a.deps.Fetcher.Fetch(ctx, att.URL, layout.AttachmentPath(att.ID)); err != nil {
				errs <- err
				return
			}
			assetsFetchedTotal.Inc()
		}(att)
	}
	wg.Wait()
	close(errs)
	return <-errs
}

// fail notifies the requester and returns err. replied says whether the
// public status reply exists yet; before it does, the notice goes out as an
// ephemeral reply since there is nothing to edit.
func (a *Archiver) fail(ctx context.Context, status chat.Status, log zerolog.Logger, err error, replied bool) error {
	jobsFailedTotal.Inc()
	log.Error().Stack().Err(err).Msg("archival job failed")
	notify := status.ReplyEphemeral
	if replied {
		notify = status.Edit
	}
	if notifyErr := notify(ctx, "Archival failed."); notifyErr != nil {
		log.Warn().Err(notifyErr).Msg("report failure to requester")
	}
	return err
}
