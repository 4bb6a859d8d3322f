// Copyright 2021 Converter Systems LLC. All rights reserved.

package main

import (
	"context"
	"math/rand"
	"net/http"

	"github.com/awcullen/opcua-pubsub/config"
	"github.com/awcullen/opcua-pubsub/metrics"
	"github.com/awcullen/opcua-pubsub/pubsub"
	"github.com/awcullen/opcua-pubsub/server"
	"github.com/awcullen/opcua-pubsub/steamengine"
	"github.com/awcullen/opcua-pubsub/transport"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// run starts the server and the publisher, then blocks until the context is done.
// The uri and device arguments override the configuration.
func run(ctx context.Context, configFile, uri, device string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if uri != "" {
		cfg.PubSub.URI = uri
	}
	if device != "" {
		cfg.PubSub.NetworkInterface = device
	}

	logger := config.NewLogger(cfg.Logger.Level, cfg.Logger.Format, cfg.Logger.DisableTimestamp)

	ep, err := transport.ParseURI(cfg.PubSub.URI, cfg.PubSub.NetworkInterface)
	if err != nil {
		logger.WithError(err).Error("Error parsing transport uri.")
		return err
	}

	reg := metrics.NewRegistry()
	srv, err := server.New(
		cfg.ApplicationURI,
		server.WithLogger(logger),
		server.WithMetrics(reg),
		server.WithMaxWorkerThreads(cfg.Server.MaxWorkerThreads),
		server.WithMinPublishingInterval(cfg.Server.MinPublishingInterval),
	)
	if err != nil {
		return errors.Wrap(err, "Error creating server")
	}
	defer srv.Close()

	if err := steamengine.Setup(ctx, srv); err != nil {
		return errors.Wrap(err, "Error adding the steam engine model")
	}

	mgr, err := pubsub.NewManager(srv)
	if err != nil {
		return errors.Wrap(err, "Error creating publisher")
	}
	defer mgr.Close()

	tr, err := transport.New(ctx, ep,
		transport.WithLogger(logger),
		transport.WithMQTTConfig(transport.MQTTConfig{
			ClientID:       cfg.MQTT.ClientID,
			User:           cfg.MQTT.User,
			Password:       cfg.MQTT.Password,
			QoS:            cfg.MQTT.QoS,
			Retain:         cfg.MQTT.Retain,
			KeepAlive:      cfg.MQTT.KeepAlive,
			ConnectRetry:   cfg.MQTT.ConnectRetry,
			ConnectTimeout: cfg.MQTT.ConnectTimeout,
			Topic:          cfg.MQTT.Topic,
		}),
	)
	if err != nil {
		return errors.Wrap(err, "Error opening transport")
	}

	publisherID := cfg.PubSub.PublisherID
	if publisherID == 0 {
		publisherID = rand.Uint32()
	}
	if err := mgr.AddConnection(pubsub.ConnectionConfig{
		Name:                cfg.PubSub.ConnectionName,
		TransportProfileURI: ep.TransportProfileURI,
		Address:             ep.URL,
		NetworkInterface:    ep.NetworkInterface,
		PublisherID:         publisherID,
		Enabled:             true,
	}, tr); err != nil {
		tr.Close()
		return err
	}
	if err := steamengine.AddPublishedDataSet(mgr); err != nil {
		return err
	}
	if err := mgr.AddWriterGroup(cfg.PubSub.ConnectionName, pubsub.WriterGroupConfig{
		Name:               cfg.PubSub.WriterGroup.Name,
		WriterGroupID:      cfg.PubSub.WriterGroup.ID,
		PublishingInterval: cfg.PubSub.WriterGroup.PublishingInterval,
	}); err != nil {
		return err
	}
	if err := mgr.AddDataSetWriter(cfg.PubSub.WriterGroup.ID, steamengine.PublishedDataSetName, pubsub.DataSetWriterConfig{
		Name:            cfg.PubSub.DataSetWriter.Name,
		DataSetWriterID: cfg.PubSub.DataSetWriter.ID,
		KeyFrameCount:   cfg.PubSub.DataSetWriter.KeyFrameCount,
	}); err != nil {
		return err
	}
	if err := mgr.Enable(cfg.PubSub.WriterGroup.ID); err != nil {
		return err
	}

	if cfg.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", reg.Handler())
			if err := http.ListenAndServe(cfg.Metrics.Address, mux); err != nil {
				logger.WithError(err).Error("Error serving metrics.")
			}
		}()
	}

	logger.WithFields(logrus.Fields{
		"uri":         ep.URL,
		"profile":     ep.TransportProfileURI,
		"publisherId": publisherID,
	}).Info("Publishing. Press Ctrl-C to exit...")

	<-ctx.Done()
	logger.Info("Stopping publisher...")
	return nil
}
