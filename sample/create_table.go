package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/stratusdata/stratus-table-go-sdk/tablestore"
	"github.com/stratusdata/stratus-table-go-sdk/tablestore/credentials"
)

var (
	region  string
	tableID string
)

func init() {
	flag.StringVar(&region, "region", "", "The region in which the instance is located.")
	flag.StringVar(&tableID, "table", "", "The id of the table to create.")
}

func main() {
	flag.Parse()
	if len(region) == 0 {
		flag.PrintDefaults()
		log.Fatalf("invalid parameters, region required")
	}

	if len(tableID) == 0 {
		flag.PrintDefaults()
		log.Fatalf("invalid parameters, table required")
	}

	cfg := tablestore.LoadDefaultConfig().
		WithCredentialsProvider(credentials.NewEnvironmentVariableCredentialsProvider()).
		WithRegion(region)

	client := tablestore.New(cfg)
	defer client.Close()

	request := &tablestore.CreateTableRequest{
		TableID: tablestore.Ptr(tableID),
		ColumnFamilies: map[string]tablestore.ColumnFamily{
			"cf1": {GcRule: tablestore.MaxNumVersionsGcRule(3)},
			"cf2": {GcRule: tablestore.MaxAgeGcRule(30 * 24 * time.Hour)},
		},
	}
	createResult, err := client.CreateTable(context.TODO(), request)
	if err != nil {
		log.Fatalf("failed to create table %v", err)
	}

	log.Printf("create table result:%#v\n", createResult)

	done := make(chan struct{})
	_, err = client.GetTableAsync(context.TODO(), &tablestore.GetTableRequest{
		TableID: tablestore.Ptr(tableID),
		View:    tablestore.TableViewFull,
	}, func(result *tablestore.GetTableResult, err error) {
		defer close(done)
		if err != nil {
			log.Printf("failed to get table %v", err)
			return
		}
		log.Printf("get table result:%#v\n", result)
	})
	if err != nil {
		log.Fatalf("failed to submit get table %v", err)
	}
	<-done
}
