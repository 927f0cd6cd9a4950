package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	fx "github.com/robotmaps/slam.go/pkg/framework"
	"github.com/robotmaps/slam.go/pkg/link"
	"github.com/robotmaps/slam.go/pkg/mqtt"
	"github.com/robotmaps/slam.go/pkg/slam"
	"github.com/robotmaps/slam.go/pkg/viz"
)

var mapOut string

func init() {
	link.SetupFlags()
	slam.SetupFlags()
	mqtt.SetupFlags()
	viz.SetupFlags()
	flag.StringVar(&mapOut, "map-out", mapOut, "Write the final map as PNG to this file.")
}

func main() {
	flag.Parse()

	linkConf := link.NewConfig()
	conn, err := linkConf.Open()
	if err != nil {
		log.Fatalln(err)
	}
	recv, err := linkConf.NewReceiver(conn)
	if err != nil {
		log.Fatalln(err)
	}

	mapper, err := slam.NewConfig().NewMapper()
	if err != nil {
		log.Fatalln(err)
	}

	loop := fx.NewLoop().Add(recv, mapper)

	mqttConf := mqtt.NewConfig()
	q, err := mqttConf.NewQueue()
	if err != nil {
		log.Fatalln(err)
	}
	if q != nil {
		defer q.Close()
		robot, err := mqttConf.RobotID()
		if err != nil {
			log.Fatalln(err)
		}
		reporter := mqtt.NewReporter(q, robot, mapper)
		reporter.MapInterval = mqttConf.MapInterval
		loop.Add(reporter)
	}
	if srv := viz.NewConfig().NewServer(mapper); srv != nil {
		loop.Add(srv)
	}

	ctx, cancel := context.WithCancel(context.Background())
	recv.OnEOF = func() {
		// let the loop drain the last updates of a replay
		time.Sleep(300 * time.Millisecond)
		cancel()
	}

	err = fx.NewRunnerWith(ctx).HandleSignals().Go(loop).Wait()

	fmt.Println(mapper.Grid().RenderASCII())
	if mapOut != "" {
		if perr := mapper.Grid().SavePNG(mapOut); perr != nil {
			log.Fatalln(perr)
		}
		log.Printf("map written to %s", mapOut)
	}
	if err != nil {
		log.Fatalln(err)
	}
}
