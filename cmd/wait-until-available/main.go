package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"
)

// Polls the liveness endpoint of the contacts service until it answers with OK or the timeout
// elapses.
//
// Usage example on the command line:
// > go run main.go -url=http://localhost:8080/ping -timeout=2m
func main() {
	url := flag.String("url", "http://localhost:8080/ping", "the liveness endpoint to poll")
	timeout := flag.Duration("timeout", 5*time.Minute, "give up after this duration")
	flag.Parse()

	deadline := time.Now().Add(*timeout)
	totalWaitTime := 0
	for {
		res, err := http.Get(*url)
		if err == nil {
			res.Body.Close()
			if res.StatusCode == http.StatusOK {
				fmt.Println(res.Status)
				break
			}
			fmt.Println(res.Status)
		} else {
			fmt.Println(err)
		}
		if time.Now().After(deadline) {
			fmt.Println("service not available after", *timeout)
			os.Exit(1)
		}
		totalWaitTime += 5
		fmt.Printf("Waiting %d seconds", totalWaitTime)
		fmt.Println()
		time.Sleep(5 * time.Second)
	}
}
