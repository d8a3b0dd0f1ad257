/*
 * Copyright (c) 2022, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package main

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
)

/*
 * This tests aggressive request spamming against `gramstats serve`. Each
 * worker names its grammars with a unique id so they can be found in the
 * server logs, and every tenth grammar references an undefined rule set.
 */

func main() {
	endpoint := "http://localhost:8080/stats"
	if len(os.Args) > 1 {
		endpoint = os.Args[1]
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := uuid.NewString()

			for i := 0; i < 1000; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					want := http.StatusOK
					body := fmt.Sprintf("s : A b%d ;\nb%d : B | C ;\n", i, i)
					if i%10 == 0 {
						want = http.StatusUnprocessableEntity
						body = fmt.Sprintf("s : A missing%d ;\n", i)
					}

					target := endpoint + "?name=" + url.QueryEscape(fmt.Sprintf("%s/%d", id, i))
					resp, err := http.Post(target, "text/plain", strings.NewReader(body))
					if err != nil {
						os.Exit(1)
					}
					resp.Body.Close()
					if resp.StatusCode != want {
						fmt.Fprintf(os.Stderr, "%s/%d: wanted %d, got %d\n", id, i, want, resp.StatusCode)
						os.Exit(1)
					}
				}(i)
			}
		}()
	}

	wg.Wait()
}
