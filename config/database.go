package config

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectDatabase dials MongoDB and pings it before handing the client out.
func ConnectDatabase(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetTimeout(timeout))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	slog.Info("Connected to MongoDB")
	return client, nil
}

// UseTransactions resolves MONGO_TRANSACTIONS. "auto" asks the server: only
// replica sets and mongos accept multi-document transactions.
func UseTransactions(ctx context.Context, mode string, client *mongo.Client, timeout time.Duration) bool {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode != "auto" && mode != "" {
		on, err := strconv.ParseBool(mode)
		if err != nil {
			slog.Warn("MONGO_TRANSACTIONS is not a boolean or auto, detecting", "value", mode)
		} else {
			return on
		}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	var hello helloReply
	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&hello); err != nil {
		slog.Warn("could not detect MongoDB topology, transactions off", "error", err)
		return false
	}
	on := hello.supportsTransactions()
	slog.Info("MongoDB transactions", "enabled", on, "replicaSet", hello.SetName)
	return on
}

type helloReply struct {
	SetName string `bson:"setName"`
	Msg     string `bson:"msg"`
}

func (h helloReply) supportsTransactions() bool {
	return h.SetName != "" || h.Msg == "isdbgrid"
}
