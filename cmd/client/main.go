package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"time"

	api "gitlab.com/dirk.krummacker/contact-book/pkg/model"
)

// Measures the average duration in microseconds of the contact operations for growing numbers of
// contacts. The API token must belong to an existing user (see cmd/adduser).
//
// Usage example on the command line:
// > API_TOKEN=0b6a1f0e-... go run main.go -url=http://localhost:8080
func main() {
	baseURL := flag.String("url", "http://localhost:8080", "the base URL of the contacts service")
	token := flag.String("token", os.Getenv("API_TOKEN"), "the API token of the user")
	flag.Parse()
	c := &client{baseURL: *baseURL, token: *token}

	fmt.Println()
	fmt.Println("  Elements      POST     PATCH       GET    DELETE ")
	fmt.Println("---------------------------------------------------")
	sizes := []int{1000, 5000, 10000, 50000, 100000}
	jsonBody := []byte(`{
		"name": "Marcus Antonius",
		"email": "marcus@example.com",
		"birthday": "01/14/1983",
		"company": "SPQR"
	}`)
	for _, loops := range sizes {
		firstID, _ := c.sendPostRequest(bytes.NewReader(jsonBody))
		fmt.Printf("%10d", loops)
		{
			// POST requests
			var duration int64
			for i := 0; i < loops; i++ {
				_, d := c.sendPostRequest(bytes.NewReader(jsonBody))
				duration += d
			}
			fmt.Printf("%10d", duration/int64(loops*1000))
		}
		{
			// PATCH requests
			f := func(id int64) int64 {
				return c.sendRequestForID(id, http.MethodPatch, bytes.NewReader(jsonBody))
			}
			callInLoop(firstID, loops, f)
		}
		{
			// GET requests
			f := func(id int64) int64 {
				return c.sendRequestForID(id, http.MethodGet, nil)
			}
			callInLoop(firstID, loops, f)
		}
		{
			// DELETE requests
			f := func(id int64) int64 {
				return c.sendRequestForID(id, http.MethodDelete, nil)
			}
			callInLoop(firstID, loops, f)
		}
		c.sendRequestForID(firstID, http.MethodDelete, nil)
		fmt.Println()
	}
}

type client struct {
	baseURL string
	token   string
}

func callInLoop(firstID int64, loops int, f func(id int64) int64) {
	ids := createRandomSliceWithIDs(firstID+1, loops)
	var duration int64
	for _, id := range ids {
		d := f(id)
		duration += d
	}
	fmt.Printf("%10d", duration/int64(loops*1000))
}

func createRandomSliceWithIDs(firstID int64, loops int) []int64 {
	ids := make([]int64, 0, loops)
	for i := 0; i < loops; i++ {
		ids = append(ids, firstID+int64(i))
	}
	rand.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
	return ids
}

func (c *client) sendPostRequest(bodyReader io.Reader) (int64, int64) {
	resBody, duration := c.sendRequest(http.MethodPost, c.baseURL+"/contacts", bodyReader, http.StatusCreated)
	var envelope api.ContactEnvelope
	err := json.Unmarshal(resBody, &envelope)
	if err != nil {
		fmt.Println("could not unmarshal JSON", err)
		panic(err)
	}
	return envelope.Data.ContactId, duration
}

func (c *client) sendRequestForID(id int64, method string, bodyReader io.Reader) int64 {
	requestURL := fmt.Sprintf("%s/contacts/%d", c.baseURL, id)
	expected := http.StatusOK
	if method == http.MethodDelete {
		expected = http.StatusNoContent
	}
	_, duration := c.sendRequest(method, requestURL, bodyReader, expected)
	return duration
}

func (c *client) sendRequest(method string, requestURL string, bodyReader io.Reader, expected int) ([]byte, int64) {
	req, err := http.NewRequest(method, requestURL, bodyReader)
	if err != nil {
		fmt.Println("could not create request", err)
		panic(err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	before := time.Now().UnixNano()
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Println("error making http request", err)
		panic(err)
	}
	defer res.Body.Close()
	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		fmt.Println("could not read response body", err)
		panic(err)
	}
	after := time.Now().UnixNano()
	if res.StatusCode != expected {
		fmt.Printf("unexpected status %d for %s %s: %s\n", res.StatusCode, method, requestURL, resBody)
		os.Exit(1)
	}
	return resBody, after - before
}
