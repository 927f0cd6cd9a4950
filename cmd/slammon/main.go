package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/robotmaps/slam.go/pkg/mqtt"
)

var (
	mqttURL = "mqtt://localhost:1883/slam/"
)

func init() {
	if val := os.Getenv("SLAM_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	if err = q.Connect(); err != nil {
		log.Fatalln(err)
	}

	q.Sub("#", mqtt.Handler(func(topic string, payload []byte) {
		if strings.HasSuffix(topic, "/map") {
			var report mqtt.MapReport
			if err := json.Unmarshal(payload, &report); err != nil {
				log.Printf("%s: bad message: %v", topic, err)
				return
			}
			log.Printf("%s: %dx%d cells of %dcm\n%s",
				topic, report.Rows, report.Cols, report.CellSize, report.ASCII)
			return
		}
		log.Printf("%s: %s", topic, string(payload))
	}))
	<-(chan struct{})(nil)
}
