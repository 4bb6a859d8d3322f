// Copyright 2021 Converter Systems LLC. All rights reserved.

package server

import (
	"sync"
	"time"

	"github.com/awcullen/opcua-pubsub/metrics"
	"github.com/awcullen/opcua-pubsub/ua"
	"github.com/gammazero/workerpool"
	"github.com/sirupsen/logrus"
)

const (
	// the default number of worker threads that may be created.
	defaultMaxWorkerThreads int = 4
	// the smallest interval of a PollGroup.
	defaultMinPublishingInterval = time.Millisecond
)

// Server holds the address space and runs the periodic work of the publishers.
type Server struct {
	sync.RWMutex
	applicationURI        string
	maxWorkerThreads      int
	minPublishingInterval time.Duration
	logger                *logrus.Logger
	metrics               *metrics.Registry
	hookErrorHandler      func(error)
	clock                 func() time.Time
	closing               chan struct{}
	state                 ua.ServerState
	startTime             time.Time
	workerpool            *workerpool.WorkerPool
	namespaceManager      *NamespaceManager
	scheduler             *Scheduler
}

// New initializes a new instance of the Server.
func New(applicationURI string, options ...Option) (*Server, error) {
	srv := &Server{
		applicationURI:        applicationURI,
		maxWorkerThreads:      defaultMaxWorkerThreads,
		minPublishingInterval: defaultMinPublishingInterval,
		logger:                logrus.StandardLogger(),
		clock:                 time.Now,
		closing:               make(chan struct{}),
		state:                 ua.ServerStateUnknown,
	}

	// apply each option to the default
	for _, opt := range options {
		if err := opt(srv); err != nil {
			return nil, err
		}
	}
	if srv.metrics == nil {
		srv.metrics = metrics.NewRegistry()
	}

	srv.startTime = srv.now()
	srv.workerpool = workerpool.New(srv.maxWorkerThreads)
	srv.namespaceManager = NewNamespaceManager(srv)
	srv.scheduler = NewScheduler(srv)

	if err := srv.initializeNamespace(); err != nil {
		srv.logger.WithError(err).Error("Error initializing namespace.")
		srv.workerpool.Stop()
		return nil, err
	}
	srv.state = ua.ServerStateRunning
	return srv, nil
}

// ApplicationURI returns the uri of namespace 1.
func (srv *Server) ApplicationURI() string {
	return srv.applicationURI
}

// Closing gets a channel that broadcasts the closing of the server.
func (srv *Server) Closing() <-chan struct{} {
	return srv.closing
}

// State returns the current state of the server.
func (srv *Server) State() ua.ServerState {
	srv.RLock()
	defer srv.RUnlock()
	return srv.state
}

// NamespaceUris returns the namespace table of the server.
func (srv *Server) NamespaceUris() []string {
	return srv.namespaceManager.NamespaceUris()
}

// NamespaceManager gets the namespace manager.
func (srv *Server) NamespaceManager() *NamespaceManager {
	return srv.namespaceManager
}

// Scheduler gets the poll group scheduler.
func (srv *Server) Scheduler() *Scheduler {
	return srv.scheduler
}

// WorkerPool gets the pool of workers.
func (srv *Server) WorkerPool() *workerpool.WorkerPool {
	return srv.workerpool
}

// Logger gets the logger.
func (srv *Server) Logger() *logrus.Logger {
	return srv.logger
}

// Metrics gets the metrics registry.
func (srv *Server) Metrics() *metrics.Registry {
	return srv.metrics
}

// Close stops the poll groups and waits for the queued work to complete.
func (srv *Server) Close() error {
	srv.Lock()
	if srv.state != ua.ServerStateRunning {
		srv.Unlock()
		return ua.BadInvalidState
	}
	srv.state = ua.ServerStateShutdown
	close(srv.closing)
	srv.Unlock()

	// stop workers.
	srv.workerpool.StopWait()
	srv.logger.Info("Server closed.")
	return nil
}

// submit queues the task unless the server is closing.
func (srv *Server) submit(task func()) {
	srv.RLock()
	defer srv.RUnlock()
	if srv.state != ua.ServerStateRunning {
		return
	}
	srv.workerpool.Submit(task)
}

// hookError reports an error of a handler that must not fail the calling operation.
func (srv *Server) hookError(err error, hook string) {
	srv.logger.WithFields(logrus.Fields{
		"hook":  hook,
		"error": err,
	}).Warn("Hook failed")
	srv.metrics.RecordHookError(hook)
	if srv.hookErrorHandler != nil {
		srv.hookErrorHandler(err)
	}
}

// Now returns the time of the server clock.
func (srv *Server) Now() time.Time {
	return srv.clock()
}

func (srv *Server) now() time.Time {
	return srv.clock()
}
