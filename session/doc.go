// Package session multiplexes the annotation streams of one record.
//
// A Session opens a bounded number of input and output annotators, each referred to by
// a generation-checked Handle:
//
//	s, err := session.New("100", session.WithTransport(transport.NewFiles("/data")))
//	hs, err := s.Open(
//	    format.StreamSpec{Name: "atr", Mode: format.Read},
//	    format.StreamSpec{Name: "qrs", Mode: format.Write},
//	)
//	for {
//	    a, err := s.Read(hs[0])
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    ...
//	    _ = s.Write(hs[1], a)
//	}
//	err = s.CloseAll(ctx)
//
// Custom type-code definitions travel in-band. An input imports the modification
// labels at its head into the session's code table, and an output starts with one
// label per entry modified in this process.
//
// Outputs written out of canonical (time, channel) order are reordered when they are
// closed, through the session's remedy.Remediator, unless automatic sorting is
// disabled. Outputs that stay out of order are logged with the command that fixes them
// and listed by Unresolved.
package session
